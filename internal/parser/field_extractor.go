package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tidwall/gjson"

	"resume-match-go/internal/llm"
	"resume-match-go/internal/types"
)

// FieldExtractor 使用LLM从简历文本中提取结构化字段
type FieldExtractor struct {
	llmModel       llm.ChatModel
	promptTemplate string
	logger         *log.Logger
}

// FieldExtractorOption FieldExtractor的配置选项
type FieldExtractorOption func(*FieldExtractor)

// WithFieldExtractorLogger 配置自定义日志记录器
func WithFieldExtractorLogger(logger *log.Logger) FieldExtractorOption {
	return func(e *FieldExtractor) {
		e.logger = logger
	}
}

// WithFieldExtractorPrompt 设置自定义提示词模板, 模板中必须有一个 %s 占位简历文本
func WithFieldExtractorPrompt(template string) FieldExtractorOption {
	return func(e *FieldExtractor) {
		e.promptTemplate = template
	}
}

// NewFieldExtractor 创建一个新的字段提取器
func NewFieldExtractor(llmModel llm.ChatModel, options ...FieldExtractorOption) *FieldExtractor {
	extractor := &FieldExtractor{
		llmModel: llmModel,
		logger:   log.New(io.Discard, "", 0),
	}
	extractor.generatePromptTemplate()

	for _, opt := range options {
		opt(extractor)
	}
	return extractor
}

// generatePromptTemplate 生成默认提示词模板
// 要求模型只输出约定schema的纯JSON
func (e *FieldExtractor) generatePromptTemplate() {
	e.promptTemplate = `You are a professional resume parser.
Extract only these fields and return valid JSON (no explanation, no markdown):

{
  "summary": "",
  "skills": [],
  "education": {
      "degree": "",
      "university": "",
      "major": ""
  },
  "certifications": [],
  "languages": [],
  "location": "",
  "experience_years": ""
}

Resume Text:
%s

Rules:
- In "summary", provide a concise professional overview (1-3 sentences) of the candidate.
- In "skills", extract programming languages, frameworks, libraries, AI/ML/NLP tools, LLMs, and generative AI technologies.
- Include skills like Python, Node.js, React, Django, TensorFlow, PyTorch, NLP, RAG, LLMs, HuggingFace, OpenAI, LangChain, etc.
- Do NOT include soft skills or conceptual skills like "OOP", "API Design", "Teamwork", "Security", "Documentation", etc.
- Return strictly valid JSON only.`
}

// ExtractFields 调用LLM解析简历文本
// LLM输出无法解析为JSON时返回零值记录而不是错误
func (e *FieldExtractor) ExtractFields(ctx context.Context, resumeText string) (*types.ParsedResume, error) {
	systemMsg := schema.SystemMessage("你是一个专业的简历解析专家，擅长从简历文本中提取结构化信息并输出标准JSON格式。")
	userMsg := schema.UserMessage(fmt.Sprintf(e.promptTemplate, resumeText))

	response, err := e.llmModel.Generate(ctx, []*schema.Message{systemMsg, userMsg})
	if err != nil {
		return nil, fmt.Errorf("调用LLM失败: %w", err)
	}

	parsed := e.parseResponse(response.Content)
	return parsed, nil
}

// parseResponse 从LLM响应中提取ParsedResume
// 先截取第一个配平的 {...} 片段, 再用gjson逐字段读取, 容忍字段类型不规范
func (e *FieldExtractor) parseResponse(response string) *types.ParsedResume {
	parsed := &types.ParsedResume{
		Skills:          []string{},
		Certifications:  []string{},
		Languages:       []string{},
		ExperienceYears: json.Number("0"),
	}

	jsonStr := ExtractJSON(response)
	if jsonStr == "" || !gjson.Valid(jsonStr) {
		e.logger.Printf("LLM响应中没有有效的JSON, 返回空记录: %.200s", response)
		return parsed
	}

	root := gjson.Parse(jsonStr)
	parsed.Summary = root.Get("summary").String()
	parsed.Location = root.Get("location").String()
	parsed.Education = types.Education{
		Degree:     root.Get("education.degree").String(),
		University: root.Get("education.university").String(),
		Major:      root.Get("education.major").String(),
	}
	parsed.Skills = stringArray(root.Get("skills"))
	parsed.Certifications = stringArray(root.Get("certifications"))
	parsed.Languages = stringArray(root.Get("languages"))

	if expYears := root.Get("experience_years"); expYears.Exists() && strings.TrimSpace(expYears.String()) != "" {
		parsed.ExperienceYears = json.Number(fmt.Sprintf("%g", expYears.Float()))
	}

	return parsed
}

func stringArray(result gjson.Result) []string {
	values := []string{}
	for _, item := range result.Array() {
		if s := item.String(); s != "" {
			values = append(values, s)
		}
	}
	return values
}

// ExtractJSON 从文本中提取第一个配平的JSON对象
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			level++
		} else if text[i] == '}' {
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
