package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockChatModel 测试用的聊天模型, 按顺序返回预置的响应
type MockChatModel struct {
	Responses []string
	Err       error

	// Calls 记录每次调用收到的消息
	Calls [][]*schema.Message

	next int
}

// Generate 实现 ChatModel 接口
func (m *MockChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return nil, m.Err
	}

	content := ""
	if len(m.Responses) > 0 {
		if m.next < len(m.Responses) {
			content = m.Responses[m.next]
			m.next++
		} else {
			content = m.Responses[len(m.Responses)-1]
		}
	}

	return &schema.Message{Role: schema.Assistant, Content: content}, nil
}
