package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/chatbot"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/tracing"
)

// 聊天接口的固定文案, 与前端约定为阿拉伯语
const (
	emptyQuestionReply = "سؤال فارغ"
	chatErrorReply     = "حدث خطأ أثناء معالجة سؤالك."
)

// ChatHandler 平台问答接口
type ChatHandler struct {
	bot *chatbot.Bot
}

// NewChatHandler 创建问答接口
func NewChatHandler(bot *chatbot.Bot) *ChatHandler {
	return &ChatHandler{bot: bot}
}

// HandleChat POST /get
// 表单字段 msg 和可选 session_id, 响应为纯文本
func (h *ChatHandler) HandleChat(ctx context.Context, c *app.RequestContext) {
	msg := c.PostForm("msg")
	if msg == "" {
		c.String(consts.StatusOK, emptyQuestionReply)
		return
	}
	sessionID := c.PostForm("session_id")

	answer, err := h.bot.Answer(ctx, sessionID, msg)
	if err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("生成聊天回答失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeLLM)
		c.String(consts.StatusInternalServerError, chatErrorReply)
		return
	}
	c.String(consts.StatusOK, "%s", answer)
}
