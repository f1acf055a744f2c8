package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/embedding"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/types"
)

// 两阶段打分权重: 粗排 0.5/0.3/0.2, 精排 0.5/0.5
const (
	skillWeight = 0.5
	eduWeight   = 0.3
	expWeight   = 0.2

	baseBlendWeight = 0.5
	textBlendWeight = 0.5
)

// VectorCache 岗位全文向量缓存, 按岗位ID和向量模型版本区分
type VectorCache interface {
	GetJobTextVector(ctx context.Context, jobID, modelVersion string) ([]float64, error)
	SetJobTextVector(ctx context.Context, jobID, modelVersion string, vector []float64) error
}

// SimilarityService 简历与岗位列表的两阶段匹配服务
// 先按技能/学历/年限粗排取前50, 再用全文向量精排取前10
type SimilarityService struct {
	embedder embedding.TextEmbedder
	cache    VectorCache
}

// SimilarityServiceOption SimilarityService的配置选项
type SimilarityServiceOption func(*SimilarityService)

// WithVectorCache 启用岗位向量缓存
func WithVectorCache(cache VectorCache) SimilarityServiceOption {
	return func(s *SimilarityService) {
		s.cache = cache
	}
}

// NewSimilarityService 创建匹配服务
func NewSimilarityService(embedder embedding.TextEmbedder, options ...SimilarityServiceOption) *SimilarityService {
	service := &SimilarityService{embedder: embedder}
	for _, opt := range options {
		opt(service)
	}
	return service
}

type rankedJob struct {
	job       *types.JobPosting
	baseScore float64
	textScore float64
}

// RankJobs 对请求中的岗位列表打分排序
// 岗位为空, 或既没有简历文本也没有预计算向量时, 返回空列表
func (s *SimilarityService) RankJobs(ctx context.Context, req *types.SimilarityRequest) ([]types.ScoredJob, error) {
	if len(req.Jobs) == 0 {
		return []types.ScoredJob{}, nil
	}
	if strings.TrimSpace(req.ResumeText) == "" && len(req.ResumeEmbedding) == 0 {
		return []types.ScoredJob{}, nil
	}

	skillVectors, err := s.embedSkills(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("嵌入技能词失败: %w", err)
	}

	resumeExp := ParseExperienceYears(req.ResumeExperience)

	// 第一阶段: 技能/学历/年限粗排
	ranked := make([]*rankedJob, 0, len(req.Jobs))
	for i := range req.Jobs {
		job := &req.Jobs[i]
		skillScore := s.skillScore(skillVectors, req.ResumeSkills, job.RequiredSkills)
		eduScore := educationScore(req.ResumeEducation, job.RequiredEducation)
		expScore := experienceScore(resumeExp, job.RequiredExperience)

		ranked = append(ranked, &rankedJob{
			job:       job,
			baseScore: skillWeight*skillScore + eduWeight*eduScore + expWeight*expScore,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].baseScore > ranked[j].baseScore
	})
	if len(ranked) > constants.SimilarityPrefilterLimit {
		ranked = ranked[:constants.SimilarityPrefilterLimit]
	}

	// 第二阶段: 全文向量精排
	resumeVector, err := s.resumeTextVector(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.fillJobTextScores(ctx, ranked, resumeVector); err != nil {
		return nil, err
	}

	for _, r := range ranked {
		r.baseScore = roundTo(baseBlendWeight*r.baseScore+textBlendWeight*r.textScore, 4)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].baseScore > ranked[j].baseScore
	})
	if len(ranked) > constants.SimilarityResultLimit {
		ranked = ranked[:constants.SimilarityResultLimit]
	}

	result := make([]types.ScoredJob, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, types.ScoredJob{JobID: r.job.ID, FinalScore: r.baseScore})
	}
	return result, nil
}

// embedSkills 一次性嵌入简历技能和所有岗位要求技能, 返回词到向量的映射
func (s *SimilarityService) embedSkills(ctx context.Context, req *types.SimilarityRequest) (map[string][]float64, error) {
	seen := make(map[string]struct{})
	texts := make([]string, 0, len(req.ResumeSkills))

	collect := func(skills []string) {
		for _, skill := range skills {
			key := normalizeSkill(skill)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			texts = append(texts, key)
		}
	}
	collect(req.ResumeSkills)
	for _, job := range req.Jobs {
		collect(job.RequiredSkills)
	}

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("嵌入结果数量不匹配: 期望%d, 实际%d", len(texts), len(vectors))
	}

	byText := make(map[string][]float64, len(texts))
	for i, text := range texts {
		byText[text] = vectors[i]
	}
	return byText, nil
}

// skillScore 候选人每项技能取与岗位要求技能的最大余弦, 再求平均
// 岗位没有要求技能或候选人没有技能时为0
func (s *SimilarityService) skillScore(vectors map[string][]float64, resumeSkills, requiredSkills []string) float64 {
	if len(resumeSkills) == 0 || len(requiredSkills) == 0 {
		return 0
	}

	total := 0.0
	counted := 0
	for _, skill := range resumeSkills {
		vec, ok := vectors[normalizeSkill(skill)]
		if !ok {
			continue
		}

		best := 0.0
		for _, required := range requiredSkills {
			reqVec, ok := vectors[normalizeSkill(required)]
			if !ok {
				continue
			}
			if sim := ClampedCosine(vec, reqVec); sim > best {
				best = sim
			}
		}
		total += best
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// resumeTextVector 优先使用请求携带的预计算向量, 否则嵌入简历全文
func (s *SimilarityService) resumeTextVector(ctx context.Context, req *types.SimilarityRequest) ([]float64, error) {
	if len(req.ResumeEmbedding) > 0 {
		return req.ResumeEmbedding, nil
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{req.ResumeText})
	if err != nil {
		return nil, fmt.Errorf("嵌入简历全文失败: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("嵌入简历全文返回空结果")
	}
	return vectors[0], nil
}

// fillJobTextScores 计算精排阶段的全文相似度, 岗位向量优先走缓存
func (s *SimilarityService) fillJobTextScores(ctx context.Context, ranked []*rankedJob, resumeVector []float64) error {
	modelVersion := s.embedder.ModelVersion()

	missing := make([]*rankedJob, 0, len(ranked))
	missingTexts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		if s.cache != nil && r.job.ID != "" {
			vector, err := s.cache.GetJobTextVector(ctx, r.job.ID, modelVersion)
			if err != nil {
				logger.Warn().Err(err).Str("job_id", r.job.ID).Msg("读取岗位向量缓存失败, 退回实时嵌入")
			} else if len(vector) > 0 {
				r.textScore = ClampedCosine(resumeVector, vector)
				continue
			}
		}
		missing = append(missing, r)
		missingTexts = append(missingTexts, jobText(r.job))
	}

	if len(missing) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedStrings(ctx, missingTexts)
	if err != nil {
		return fmt.Errorf("嵌入岗位全文失败: %w", err)
	}
	if len(vectors) != len(missing) {
		return fmt.Errorf("岗位全文嵌入数量不匹配: 期望%d, 实际%d", len(missing), len(vectors))
	}

	for i, r := range missing {
		r.textScore = ClampedCosine(resumeVector, vectors[i])
		if s.cache != nil && r.job.ID != "" {
			if err := s.cache.SetJobTextVector(ctx, r.job.ID, modelVersion, vectors[i]); err != nil {
				logger.Warn().Err(err).Str("job_id", r.job.ID).Msg("写入岗位向量缓存失败")
			}
		}
	}
	return nil
}

// jobText 拼接标题、描述和技能列表作为岗位全文
func jobText(job *types.JobPosting) string {
	return strings.TrimSpace(job.Title + " " + job.Description + " " + strings.Join(job.RequiredSkills, " "))
}

// educationScore 任一对学历字符串互为子串即记满分
func educationScore(resumeEducation, requiredEducation []string) float64 {
	if len(requiredEducation) == 0 {
		return 0
	}
	for _, required := range requiredEducation {
		req := strings.ToLower(strings.TrimSpace(required))
		if req == "" {
			continue
		}
		for _, have := range resumeEducation {
			h := strings.ToLower(strings.TrimSpace(have))
			if h == "" {
				continue
			}
			if strings.Contains(h, req) || strings.Contains(req, h) {
				return 1.0
			}
		}
	}
	return 0
}

// experienceScore 年限占比, 上限1.0
func experienceScore(resumeYears, requiredYears float64) float64 {
	return math.Min(resumeYears/math.Max(requiredYears, 1.0), 1.0)
}

var yearsNumberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseExperienceYears 解析工作年限字段
// 兼容数字、数字字符串以及形如 ["Worked for 3 years"] 的字符串数组
func ParseExperienceYears(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return firstNumberIn(asString)
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		return firstNumberIn(strings.Join(asList, " "))
	}

	return 0
}

func firstNumberIn(s string) float64 {
	match := yearsNumberPattern.FindString(s)
	if match == "" {
		return 0
	}
	var v float64
	if _, err := fmt.Sscanf(match, "%f", &v); err != nil {
		return 0
	}
	return v
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
