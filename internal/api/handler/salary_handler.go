package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/salary"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// SalaryHandler 薪资预测接口
type SalaryHandler struct {
	estimator *salary.Estimator
}

// NewSalaryHandler 创建薪资预测接口
func NewSalaryHandler(estimator *salary.Estimator) *SalaryHandler {
	return &SalaryHandler{estimator: estimator}
}

// HandleSalary POST /predict-salary
// 缺少学历或技能时返回400
func (h *SalaryHandler) HandleSalary(ctx context.Context, c *app.RequestContext) {
	var req types.SalaryRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体不是合法JSON"})
		return
	}

	resp, err := h.estimator.Estimate(ctx, &req)
	if err != nil {
		if errors.Is(err, salary.ErrMissingInput) {
			c.JSON(consts.StatusBadRequest, utils.H{"error": "Missing candidate education or skills"})
			return
		}
		logger.Error().Err(err).Str("job_title", req.JobTitle).Msg("薪资预测失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeInternal)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, resp)
}
