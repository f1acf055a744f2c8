package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/storage/models"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// AnalyzeHandler 简历分析接口
// 流程: 取文件 → 提取文本 → LLM结构化 → 正则补充联系方式和年限
type AnalyzeHandler struct {
	pdfExtractor   parser.PDFExtractor
	fieldExtractor *parser.FieldExtractor
	storage        *storage.Storage
}

// NewAnalyzeHandler 创建简历分析接口
func NewAnalyzeHandler(pdfExtractor parser.PDFExtractor, fieldExtractor *parser.FieldExtractor, store *storage.Storage) *AnalyzeHandler {
	return &AnalyzeHandler{
		pdfExtractor:   pdfExtractor,
		fieldExtractor: fieldExtractor,
		storage:        store,
	}
}

type analyzeRequest struct {
	FilePath string `json:"file_path"`
}

// HandleAnalyze POST /analyze
// 请求体 {file_path}, 支持本地路径和 minio://bucket/key 两种形式
func (h *AnalyzeHandler) HandleAnalyze(ctx context.Context, c *app.RequestContext) {
	var req analyzeRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil || strings.TrimSpace(req.FilePath) == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少file_path字段"})
		return
	}

	text, err := h.extractText(ctx, req.FilePath)
	if err != nil {
		logger.Error().Err(err).Str("file_path", req.FilePath).Msg("提取简历文本失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeInternal)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	resp, err := h.analyzeText(ctx, text, "")
	if err != nil {
		logger.Error().Err(err).Msg("分析简历失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeLLM)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	annotateAnalyzeSpan(ctx, resp, text)
	c.JSON(consts.StatusOK, resp)
}

// HandleAnalyzeUpload POST /analyze/upload
// multipart上传: file为必填, source_channel可选; 原始文件先落对象存储再分析
func (h *AnalyzeHandler) HandleAnalyzeUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
		return
	}

	sourceChannel := c.PostForm("source_channel")
	if sourceChannel == "" {
		sourceChannel = "web_upload"
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
		return
	}
	defer file.Close()

	submissionUUID := uuid.NewString()
	objectPath := ""
	if h.storage != nil && h.storage.MinIO != nil {
		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".pdf"
		}
		objectPath, err = h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, file, fileHeader.Size)
		if err != nil {
			logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("上传简历到MinIO失败")
			tracing.RecordErrorWithInfo(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeInternal,
				attribute.String("submission_uuid", submissionUUID))
			c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		if _, err := file.Seek(0, 0); err != nil {
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "重置文件读取位置失败"})
			return
		}
	}

	text, _, err := h.pdfExtractor.ExtractTextFromReader(ctx, file, fileHeader.Filename)
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("提取上传简历文本失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeInternal)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	resp, err := h.analyzeText(ctx, text, submissionUUID)
	if err != nil {
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("分析上传简历失败")
		tracing.RecordError(oteltrace.SpanFromContext(ctx), err, tracing.ErrorTypeLLM)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	h.persistAndNotify(ctx, resp, sourceChannel, objectPath)
	annotateAnalyzeSpan(ctx, resp, text)
	c.JSON(consts.StatusOK, resp)
}

// annotateAnalyzeSpan 把分析结果摘要写入当前span, 敏感字段打码后再写
func annotateAnalyzeSpan(ctx context.Context, resp *types.AnalyzeResponse, text string) {
	span := oteltrace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("resume.email", tracing.SafeAttributeValue("resume.email", resp.Email, tracing.DefaultMaxLength)),
		attribute.String("resume.phone", tracing.SafeAttributeValue("resume.phone", resp.Phone, tracing.DefaultMaxLength)),
		attribute.String("resume.text_preview", tracing.SafeResumeContent(text)),
		attribute.Int("resume.skill_count", len(resp.ParserOutput.Skills)),
	)
}

// extractText 按路径形式选择数据源
func (h *AnalyzeHandler) extractText(ctx context.Context, filePath string) (string, error) {
	if strings.HasPrefix(filePath, "minio://") {
		if h.storage == nil || h.storage.MinIO == nil {
			return "", fmt.Errorf("对象存储未配置, 无法读取 %s", filePath)
		}
		bucket, objectKey, err := storage.ParseMinIOPath(filePath)
		if err != nil {
			return "", err
		}
		data, err := h.storage.MinIO.GetResumeFile(ctx, bucket, objectKey)
		if err != nil {
			return "", err
		}
		text, _, err := h.pdfExtractor.ExtractTextFromBytes(ctx, data, filePath)
		return text, err
	}

	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("简历文件不存在: %s", filePath)
	}
	text, _, err := h.pdfExtractor.ExtractFromFile(ctx, filePath)
	return text, err
}

// analyzeText 核心分析流程
// LLM没有给出年限时回填正则估算值
func (h *AnalyzeHandler) analyzeText(ctx context.Context, text, submissionUUID string) (*types.AnalyzeResponse, error) {
	parsed, err := h.fieldExtractor.ExtractFields(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("结构化解析失败: %w", err)
	}

	estimated := parser.EstimateExperienceYears(text)
	if years, err := parsed.ExperienceYears.Float64(); err != nil || years == 0 {
		parsed.ExperienceYears = json.Number(fmt.Sprintf("%g", estimated))
	}

	return &types.AnalyzeResponse{
		ParserOutput:             *parsed,
		Email:                    parser.ExtractEmail(text),
		Phone:                    parser.ExtractPhone(text),
		EstimatedExperienceYears: estimated,
		SubmissionUUID:           submissionUUID,
	}, nil
}

// persistAndNotify 落库并发布分析完成事件, 两者都是尽力而为
func (h *AnalyzeHandler) persistAndNotify(ctx context.Context, resp *types.AnalyzeResponse, sourceChannel, objectPath string) {
	if h.storage == nil || resp.SubmissionUUID == "" {
		return
	}

	if h.storage.MySQL != nil {
		parserJSON, err := json.Marshal(resp.ParserOutput)
		if err == nil {
			record := &models.ResumeAnalysis{
				SubmissionUUID:           resp.SubmissionUUID,
				SourceChannel:            sourceChannel,
				OriginalFileKey:          objectPath,
				Email:                    resp.Email,
				Phone:                    resp.Phone,
				ParserOutput:             parserJSON,
				EstimatedExperienceYears: resp.EstimatedExperienceYears,
			}
			if err := h.storage.MySQL.SaveResumeAnalysis(ctx, record); err != nil {
				logger.Warn().Err(err).Str("submission_uuid", resp.SubmissionUUID).Msg("保存分析记录失败")
			}
		}
	}

	if h.storage.RabbitMQ != nil {
		event := &storage.AnalysisCompletedEvent{
			SubmissionUUID:           resp.SubmissionUUID,
			SourceChannel:            sourceChannel,
			Email:                    resp.Email,
			SkillCount:               len(resp.ParserOutput.Skills),
			EstimatedExperienceYears: resp.EstimatedExperienceYears,
			CompletedAt:              time.Now(),
		}
		if err := h.storage.RabbitMQ.PublishAnalysisCompleted(ctx, event); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", resp.SubmissionUUID).Msg("发布分析完成事件失败")
		}
	}
}
