package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "王*明", MaskPII("王小明"))
	assert.Equal(t, "my***************om", MaskPII("myemail@example.com"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))

	long := TruncateString("abcdefghijklmnop", 9)
	assert.Contains(t, long, "...")
	assert.LessOrEqual(t, len(long), 9)
}

func TestSafeAttributeValue(t *testing.T) {
	// 字段名含敏感关键词时必须打码
	masked := SafeAttributeValue("user.email", "someone@example.com", DefaultMaxLength)
	assert.NotEqual(t, "someone@example.com", masked)
	assert.Contains(t, masked, "*")

	plain := SafeAttributeValue("job.title", "Backend Developer", DefaultMaxLength)
	assert.Equal(t, "Backend Developer", plain)
}
