package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func TestAcceptanceScoreVacuousSkillMatch(t *testing.T) {
	service := NewAcceptanceService(newFakeEmbedder())

	resp, err := service.Score(context.Background(), &types.AcceptanceRequest{
		CandidateSkills:   []string{"Go"},
		JobTitle:          "go",
		JobRequiredSkills: []string{},
		JobDescription:    "",
	})
	require.NoError(t, err)

	// 岗位没有要求技能时覆盖率按1.0计
	assert.Empty(t, resp.MatchedSkills)
	assert.GreaterOrEqual(t, resp.AcceptanceScore, 0.6)
	assert.LessOrEqual(t, resp.AcceptanceScore, 1.0)
}

func TestAcceptanceScoreFullMatch(t *testing.T) {
	service := NewAcceptanceService(newFakeEmbedder())

	resp, err := service.Score(context.Background(), &types.AcceptanceRequest{
		CandidateSkills:   []string{"go"},
		JobTitle:          "go",
		JobRequiredSkills: []string{"Golang"},
		JobDescription:    "go",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Golang"}, resp.MatchedSkills)
	assert.InDelta(t, 1.0, resp.AcceptanceScore, 0.05)
}

func TestAcceptanceScoreNoCandidateSkills(t *testing.T) {
	service := NewAcceptanceService(newFakeEmbedder())

	resp, err := service.Score(context.Background(), &types.AcceptanceRequest{
		CandidateSkills:   []string{},
		JobTitle:          "python",
		JobRequiredSkills: []string{"Python"},
		JobDescription:    "backend",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.MatchedSkills)
	assert.Equal(t, 0.0, resp.AcceptanceScore)
}

func TestMatchSkillsThreshold(t *testing.T) {
	service := NewAcceptanceService(newFakeEmbedder())

	// go与golang余弦约0.99, 超过阈值; go与python正交, 不命中
	matched, ratio, err := service.MatchSkills(context.Background(), []string{"Go"}, []string{"Golang", "Python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Golang"}, matched)
	assert.InDelta(t, 0.5, ratio, 0.001)
}
