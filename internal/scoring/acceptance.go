package scoring

import (
	"context"
	"fmt"
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/embedding"
	"resume-match-go/internal/types"
)

// 录用概率权重: 技能覆盖0.6, 职位名称相关性0.2, 职位描述相关性0.2
const (
	acceptSkillWeight = 0.6
	acceptTitleWeight = 0.2
	acceptDescWeight  = 0.2
)

// AcceptanceService 预测候选人被岗位录用的概率
type AcceptanceService struct {
	embedder embedding.TextEmbedder
}

// NewAcceptanceService 创建录用打分服务
func NewAcceptanceService(embedder embedding.TextEmbedder) *AcceptanceService {
	return &AcceptanceService{embedder: embedder}
}

// Score 计算录用概率和命中的要求技能
// 岗位未列出要求技能时技能覆盖率按1.0处理, 结果始终在[0,1]内
func (s *AcceptanceService) Score(ctx context.Context, req *types.AcceptanceRequest) (*types.AcceptanceResponse, error) {
	matched, skillMatch, err := s.MatchSkills(ctx, req.CandidateSkills, req.JobRequiredSkills)
	if err != nil {
		return nil, err
	}

	titleScore, descScore, err := s.contextScores(ctx, req)
	if err != nil {
		return nil, err
	}

	score := acceptSkillWeight*skillMatch + acceptTitleWeight*titleScore + acceptDescWeight*descScore
	return &types.AcceptanceResponse{
		AcceptanceScore: roundTo(Clamp01(score), 4),
		MatchedSkills:   matched,
	}, nil
}

// MatchSkills 找出候选人覆盖到的岗位要求技能
// 要求技能向量与任一候选技能余弦达到阈值即算命中, 返回命中列表和覆盖率
func (s *AcceptanceService) MatchSkills(ctx context.Context, candidateSkills, requiredSkills []string) ([]string, float64, error) {
	if len(requiredSkills) == 0 {
		return []string{}, 1.0, nil
	}
	if len(candidateSkills) == 0 {
		return []string{}, 0, nil
	}

	vectors, err := s.embedSkillSet(ctx, candidateSkills, requiredSkills)
	if err != nil {
		return nil, 0, err
	}

	matched := []string{}
	for _, required := range requiredSkills {
		reqVec, ok := vectors[normalizeSkill(required)]
		if !ok {
			continue
		}

		for _, candidate := range candidateSkills {
			candVec, ok := vectors[normalizeSkill(candidate)]
			if !ok {
				continue
			}
			if ClampedCosine(reqVec, candVec) >= constants.SkillMatchThreshold {
				matched = append(matched, required)
				break
			}
		}
	}

	return matched, float64(len(matched)) / float64(len(requiredSkills)), nil
}

// contextScores 用候选人技能拼接文本对职位名称和描述分别计算相关性
func (s *AcceptanceService) contextScores(ctx context.Context, req *types.AcceptanceRequest) (float64, float64, error) {
	profile := strings.TrimSpace(strings.Join(req.CandidateSkills, " "))
	title := strings.TrimSpace(req.JobTitle)
	desc := strings.TrimSpace(req.JobDescription)
	if profile == "" || (title == "" && desc == "") {
		return 0, 0, nil
	}

	texts := []string{profile}
	titleIdx, descIdx := -1, -1
	if title != "" {
		titleIdx = len(texts)
		texts = append(texts, title)
	}
	if desc != "" {
		descIdx = len(texts)
		texts = append(texts, desc)
	}

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("嵌入岗位上下文失败: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, 0, fmt.Errorf("岗位上下文嵌入数量不匹配: 期望%d, 实际%d", len(texts), len(vectors))
	}

	titleScore, descScore := 0.0, 0.0
	if titleIdx > 0 {
		titleScore = ClampedCosine(vectors[0], vectors[titleIdx])
	}
	if descIdx > 0 {
		descScore = ClampedCosine(vectors[0], vectors[descIdx])
	}
	return titleScore, descScore, nil
}

// embedSkillSet 批量嵌入两组技能词, 返回归一化词到向量的映射
func (s *AcceptanceService) embedSkillSet(ctx context.Context, candidateSkills, requiredSkills []string) (map[string][]float64, error) {
	seen := make(map[string]struct{})
	texts := make([]string, 0, len(candidateSkills)+len(requiredSkills))
	for _, skill := range append(append([]string{}, candidateSkills...), requiredSkills...) {
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

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("嵌入技能词失败: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("技能嵌入数量不匹配: 期望%d, 实际%d", len(texts), len(vectors))
	}

	byText := make(map[string][]float64, len(texts))
	for i, text := range texts {
		byText[text] = vectors[i]
	}
	return byText, nil
}
