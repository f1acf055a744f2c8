package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/llm"
	"resume-match-go/internal/logger"
)

// 平台问答助手的默认人设和固定回复
const (
	DefaultPersona = `أنت "رشاد بوت"، المساعد الذكي لمنصة إرشاد.`

	emptyContextNote = "لا توجد معلومات حالياً."
	emptyAnswerReply = "لم أتمكن من توليد إجابة حالياً."
)

// Bot 平台问答助手
// 先在FAQ里找上下文, 再带上会话历史交给大模型生成回答
type Bot struct {
	faq     *FAQStore
	model   llm.ChatModel
	memory  ChatMemory
	persona string
	window  int
}

// BotOption Bot的配置选项
type BotOption func(*Bot)

// WithPersona 覆盖默认人设
func WithPersona(persona string) BotOption {
	return func(b *Bot) {
		if strings.TrimSpace(persona) != "" {
			b.persona = persona
		}
	}
}

// WithChatMemory 启用会话历史
func WithChatMemory(memory ChatMemory) BotOption {
	return func(b *Bot) {
		b.memory = memory
	}
}

// NewBot 创建问答助手
func NewBot(faq *FAQStore, model llm.ChatModel, options ...BotOption) *Bot {
	bot := &Bot{
		faq:     faq,
		model:   model,
		persona: DefaultPersona,
		window:  constants.ChatContextWindow,
	}
	for _, opt := range options {
		opt(bot)
	}
	return bot
}

// Answer 回答用户提问
// sessionID为空时不读写会话历史
func (b *Bot) Answer(ctx context.Context, sessionID, question string) (string, error) {
	faqContext := b.lookupContext(question)

	history, err := b.recentHistory(ctx, sessionID)
	if err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("读取会话历史失败, 按无历史继续")
		history = nil
	}

	systemPrompt := fmt.Sprintf("%s\n\nالمعلومات:\n%s", b.persona, faqContext)
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, schema.UserMessage(question))

	response, err := b.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("生成回答失败: %w", err)
	}

	answer := strings.TrimSpace(response.Content)
	if answer == "" {
		answer = emptyAnswerReply
	}

	if b.memory != nil && sessionID != "" {
		turn := []*schema.Message{schema.UserMessage(question), schema.AssistantMessage(answer, nil)}
		if err := b.memory.AddMessages(ctx, sessionID, turn); err != nil {
			logger.Warn().Err(err).Str("session_id", sessionID).Msg("写入会话历史失败")
		}
	}
	return answer, nil
}

// lookupContext 两级FAQ检索: 先按意图阈值匹配, 再退化到最大重叠
func (b *Bot) lookupContext(question string) string {
	if answer, ok := b.faq.MatchIntent(question); ok {
		return answer
	}
	if answer, ok := b.faq.BestMatch(question); ok {
		return answer
	}
	return emptyContextNote
}

// recentHistory 取最近几条会话消息作为上下文窗口
func (b *Bot) recentHistory(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	if b.memory == nil || sessionID == "" {
		return nil, nil
	}

	history, err := b.memory.GetHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(history) > b.window {
		history = history[len(history)-b.window:]
	}
	return history, nil
}
