package handler

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/embedding"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// EmbeddingHandler 文本向量化接口
type EmbeddingHandler struct {
	embedder embedding.TextEmbedder
}

// NewEmbeddingHandler 创建向量化接口
func NewEmbeddingHandler(embedder embedding.TextEmbedder) *EmbeddingHandler {
	return &EmbeddingHandler{embedder: embedder}
}

// HandleEmbedding POST /get-embedding
// mode为mean(默认)时返回均值池化后的单一向量, matrix时逐条返回
func (h *EmbeddingHandler) HandleEmbedding(ctx context.Context, c *app.RequestContext) {
	var req types.EmbeddingRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法JSON"})
		return
	}
	// 空输入返回空结果而不是报错, 和MeanPool的约定一致
	if len(req.Texts) == 0 {
		if req.Mode == "matrix" {
			c.JSON(consts.StatusOK, types.EmbeddingResponse{Embeddings: [][]float64{}})
			return
		}
		c.JSON(consts.StatusOK, types.EmbeddingResponse{Embedding: []float64{}})
		return
	}

	vectors, err := h.embedder.EmbedStrings(ctx, req.Texts)
	if err != nil {
		logger.Error().Err(err).Int("text_count", len(req.Texts)).Msg("文本向量化失败")
		tracing.RecordHTTPError(oteltrace.SpanFromContext(ctx), err, consts.StatusInternalServerError)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	if req.Mode == "matrix" {
		c.JSON(consts.StatusOK, types.EmbeddingResponse{Embeddings: vectors})
		return
	}
	c.JSON(consts.StatusOK, types.EmbeddingResponse{Embedding: embedding.MeanPool(vectors)})
}
