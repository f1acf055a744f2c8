package handler

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// MatchHandler 岗位匹配和录用预测接口
type MatchHandler struct {
	similarity *scoring.SimilarityService
	acceptance *scoring.AcceptanceService
}

// NewMatchHandler 创建匹配接口
func NewMatchHandler(similarity *scoring.SimilarityService, acceptance *scoring.AcceptanceService) *MatchHandler {
	return &MatchHandler{similarity: similarity, acceptance: acceptance}
}

// HandleSimilarity POST /get-similarity
// 对请求里的岗位列表做两阶段排序, 返回 [{jobId, final_score}]
func (h *MatchHandler) HandleSimilarity(ctx context.Context, c *app.RequestContext) {
	var req types.SimilarityRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法JSON"})
		return
	}

	result, err := h.similarity.RankJobs(ctx, &req)
	if err != nil {
		logger.Error().Err(err).Int("job_count", len(req.Jobs)).Msg("岗位匹配失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeEmbedding)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, result)
}

// HandleAcceptance POST /predict-acceptance
func (h *MatchHandler) HandleAcceptance(ctx context.Context, c *app.RequestContext) {
	var req types.AcceptanceRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法JSON"})
		return
	}

	resp, err := h.acceptance.Score(ctx, &req)
	if err != nil {
		logger.Error().Err(err).Msg("录用预测失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeEmbedding)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, resp)
}
