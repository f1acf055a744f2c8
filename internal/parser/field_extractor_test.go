package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/llm"
)

func TestExtractFields(t *testing.T) {
	mockModel := &llm.MockChatModel{
		Responses: []string{"根据简历内容，提取结果如下：\n" + `{
  "summary": "资深后端工程师",
  "skills": ["Go", "Python", "PyTorch"],
  "education": {"degree": "Masters", "university": "Cairo University", "major": "CS"},
  "certifications": ["AWS SAA"],
  "languages": ["English", "Arabic"],
  "location": "Cairo",
  "experience_years": 4.5
}`},
	}

	extractor := NewFieldExtractor(mockModel)
	parsed, err := extractor.ExtractFields(context.Background(), "some resume text")
	require.NoError(t, err)

	assert.Equal(t, "资深后端工程师", parsed.Summary)
	assert.Equal(t, []string{"Go", "Python", "PyTorch"}, parsed.Skills)
	assert.Equal(t, "Masters", parsed.Education.Degree)
	assert.Equal(t, "Cairo University", parsed.Education.University)
	assert.Equal(t, "CS", parsed.Education.Major)
	assert.Equal(t, []string{"AWS SAA"}, parsed.Certifications)
	assert.Equal(t, []string{"English", "Arabic"}, parsed.Languages)
	assert.Equal(t, "Cairo", parsed.Location)

	years, err := parsed.ExperienceYears.Float64()
	require.NoError(t, err)
	assert.InDelta(t, 4.5, years, 0.001)
}

func TestExtractFieldsInvalidJSON(t *testing.T) {
	mockModel := &llm.MockChatModel{
		Responses: []string{"抱歉，我无法解析这份简历。"},
	}

	extractor := NewFieldExtractor(mockModel)
	parsed, err := extractor.ExtractFields(context.Background(), "text")
	require.NoError(t, err)

	// 解析失败时返回零值记录而不是错误
	assert.Empty(t, parsed.Summary)
	assert.Empty(t, parsed.Skills)
	assert.Empty(t, parsed.Location)
}

func TestExtractFieldsStringExperienceYears(t *testing.T) {
	mockModel := &llm.MockChatModel{
		Responses: []string{`{"summary": "x", "skills": [], "experience_years": "3"}`},
	}

	extractor := NewFieldExtractor(mockModel)
	parsed, err := extractor.ExtractFields(context.Background(), "text")
	require.NoError(t, err)

	years, err := parsed.ExperienceYears.Float64()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, years, 0.001)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"纯JSON", `{"a": 1}`, `{"a": 1}`},
		{"前后有说明文字", "结果是：{\"a\": {\"b\": 2}} 以上", `{"a": {"b": 2}}`},
		{"没有JSON", "没有任何结构化内容", ""},
		{"括号不配平", `{"a": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "ahmed.ali@example.com", ExtractEmail("联系方式: ahmed.ali@example.com / +20 100 123 4567"))
	assert.Equal(t, "", ExtractEmail("没有邮箱"))
}

func TestExtractPhone(t *testing.T) {
	assert.NotEmpty(t, ExtractPhone("Phone: +20 100 123 4567"))
	assert.Equal(t, "", ExtractPhone("纯文字内容没有号码"))
}
