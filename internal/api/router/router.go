package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-match-go/internal/api/handler"
)

// Handlers 路由依赖的全部接口实现
// Chat为nil时不注册聊天路由, 其余接口都是必选
type Handlers struct {
	Analyze   *handler.AnalyzeHandler
	Match     *handler.MatchHandler
	Salary    *handler.SalaryHandler
	Embedding *handler.EmbeddingHandler
	Chat      *handler.ChatHandler
}

// RegisterRoutes 注册API路由
// 路径与历史服务保持一致, 方便前端无缝切换
func RegisterRoutes(h *server.Hertz, handlers *Handlers) {
	h.POST("/analyze", handlers.Analyze.HandleAnalyze)
	h.POST("/analyze/upload", handlers.Analyze.HandleAnalyzeUpload)

	h.POST("/get-similarity", handlers.Match.HandleSimilarity)
	h.POST("/predict-acceptance", handlers.Match.HandleAcceptance)
	h.POST("/predict-salary", handlers.Salary.HandleSalary)
	h.POST("/get-embedding", handlers.Embedding.HandleEmbedding)

	if handlers.Chat != nil {
		h.POST("/get", handlers.Chat.HandleChat)
	}

	h.GET("/health", func(_ context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
