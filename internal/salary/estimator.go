package salary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/embedding"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/types"
)

// ErrMissingInput 请求缺少学历或候选人技能, 接口层映射为400
var ErrMissingInput = errors.New("缺少候选人学历或技能")

// 薪资接口附带的综合相似度权重: 技能0.6, 学历0.25, 年限0.15
const (
	salarySkillWeight = 0.6
	salaryEduWeight   = 0.25
	salaryExpWeight   = 0.15
)

// Estimator 薪资预测服务
type Estimator struct {
	model    *Model
	embedder embedding.TextEmbedder
}

// NewEstimator 用已加载的模型创建预测服务
func NewEstimator(model *Model, embedder embedding.TextEmbedder) *Estimator {
	return &Estimator{model: model, embedder: embedder}
}

// NewEstimatorFromFile 从制品文件创建预测服务
func NewEstimatorFromFile(path string, embedder embedding.TextEmbedder) (*Estimator, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewEstimator(model, embedder), nil
}

// Estimate 预测年薪和月薪
// 同时返回职位类别、命中技能和综合相似度, 与历史接口保持一致
func (e *Estimator) Estimate(ctx context.Context, req *types.SalaryRequest) (*types.SalaryResponse, error) {
	skills := req.CandidateSkills
	if len(skills) == 0 {
		skills = req.Skills
	}
	education := parseEducation(req.CandidateEducation)
	if education == "" {
		education = req.Education
	}
	years := numberValue(req.CandidateExperience)
	if years == 0 {
		years = numberValue(req.ExperienceYears)
	}

	if strings.TrimSpace(education) == "" || len(skills) == 0 {
		return nil, ErrMissingInput
	}

	matched, skillScore, err := e.matchAndScore(ctx, skills, req.JobRequiredSkills)
	if err != nil {
		return nil, err
	}

	jobCategory := CategorizeJobTitle(strings.Join(append(append([]string{}, matched...), req.JobTitle), " "))
	eduBucket := GroupEducation(education)

	annual := roundTo(e.model.PredictAnnual(eduBucket, jobCategory, years), 2)
	monthly := math.Round(annual/12/100) * 100

	eduScore := 1.0
	if eduBucket == "Other" {
		eduScore = 0.5
	}
	expScore := math.Min(years/10, 1.0)
	similarity := roundTo(salarySkillWeight*skillScore+salaryEduWeight*eduScore+salaryExpWeight*expScore, 3)

	return &types.SalaryResponse{
		EstimatedSalary: annual,
		MonthlySalary:   monthly,
		JobCategory:     jobCategory,
		MatchedSkills:   matched,
		SimilarityScore: similarity,
	}, nil
}

// matchAndScore 一次嵌入算出命中的岗位技能和整体技能相似度
// 相似度为两组技能全部配对余弦的均值, 任一侧为空时为0
func (e *Estimator) matchAndScore(ctx context.Context, candidateSkills, jobSkills []string) ([]string, float64, error) {
	if len(candidateSkills) == 0 || len(jobSkills) == 0 {
		return []string{}, 0, nil
	}

	texts := make([]string, 0, len(candidateSkills)+len(jobSkills))
	texts = append(texts, candidateSkills...)
	texts = append(texts, jobSkills...)

	vectors, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, 0, fmt.Errorf("嵌入技能词失败: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, 0, fmt.Errorf("技能嵌入数量不匹配: 期望%d, 实际%d", len(texts), len(vectors))
	}

	candidateVectors := vectors[:len(candidateSkills)]
	jobVectors := vectors[len(candidateSkills):]

	matched := []string{}
	total := 0.0
	for j, jobVec := range jobVectors {
		hit := false
		for _, candVec := range candidateVectors {
			sim := scoring.ClampedCosine(candVec, jobVec)
			total += sim
			if sim >= constants.SkillMatchThreshold {
				hit = true
			}
		}
		if hit {
			matched = append(matched, jobSkills[j])
		}
	}

	mean := total / float64(len(candidateVectors)*len(jobVectors))
	return matched, mean, nil
}

// parseEducation 兼容字符串和字符串数组两种学历字段形式, 数组取第一项
func parseEducation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return asList[0]
	}
	return ""
}

func numberValue(n json.Number) float64 {
	if n == "" {
		return 0
	}
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
