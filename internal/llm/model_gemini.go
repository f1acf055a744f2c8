package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const defaultGeminiModel = "models/gemini-2.5-flash"

// GeminiChatModel 通过官方genai SDK调用Gemini生成模型
type GeminiChatModel struct {
	client    *genai.Client
	modelName string
}

// NewGeminiChatModel 创建一个新的Gemini聊天模型客户端
func NewGeminiChatModel(ctx context.Context, apiKey string, modelName string) (*GeminiChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建genai客户端失败: %w", err)
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultGeminiModel
	}

	return &GeminiChatModel{client: client, modelName: mn}, nil
}

// Generate 实现 ChatModel 接口
// system消息折叠进SystemInstruction, 其余消息按角色转换后透传
func (m *GeminiChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	var cfg genai.GenerateContentConfig
	var contents []*genai.Content

	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(contents) == 0 {
		return nil, fmt.Errorf("没有可发送的消息内容")
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.modelName, contents, &cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini生成内容失败: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return nil, fmt.Errorf("Gemini API返回了空响应")
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: text,
	}, nil
}
