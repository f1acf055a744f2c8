package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"resume-match-go/internal/config"
)

// ChatModel 生成模型的统一接口
// 消息和选项沿用 cloudwego/eino 的 schema, 以便不同后端实现互换
type ChatModel interface {
	Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error)
}

// BuildChatModel 根据配置构建聊天模型
// provider 为 "gemini" 时走官方genai SDK, 否则走OpenAI兼容HTTP端点
func BuildChatModel(ctx context.Context, cfg *config.Config) (ChatModel, error) {
	var base ChatModel
	var err error

	switch cfg.LLM.Provider {
	case "gemini", "":
		base, err = NewGeminiChatModel(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	case "openai":
		base, err = NewOpenAICompatChatModel(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.APIURL)
	default:
		return nil, fmt.Errorf("未知的LLM provider: %s", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	// 按模型名应用QPM限流
	if qpm, ok := cfg.ModelQPMLimits[cfg.LLM.Model]; ok && qpm > 0 {
		return NewRateLimitedChatModel(base, qpm).WithRetryPolicy(time.Second, 3), nil
	}
	return base, nil
}
