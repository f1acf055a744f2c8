package scoring

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

// fakeEmbedder 按词表返回固定向量, 保证测试确定性
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	calls   [][]string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float64{
			"go":     {1, 0, 0},
			"golang": {0.99, 0.14, 0},
			"python": {0, 1, 0},
			"excel":  {0, 0, 1},
		},
	}
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{}, texts...))

	result := make([][]float64, 0, len(texts))
	for _, text := range texts {
		if vec, ok := f.vectors[text]; ok {
			result = append(result, vec)
		} else {
			result = append(result, []float64{0.5, 0.5, 0.5})
		}
	}
	return result, nil
}

func (f *fakeEmbedder) GetDimensions() int   { return 3 }
func (f *fakeEmbedder) ModelVersion() string { return "fake-v1" }

// fakeVectorCache 内存版岗位向量缓存
type fakeVectorCache struct {
	mu      sync.Mutex
	data    map[string][]float64
	getHits int
}

func newFakeVectorCache() *fakeVectorCache {
	return &fakeVectorCache{data: map[string][]float64{}}
}

func (c *fakeVectorCache) GetJobTextVector(_ context.Context, jobID, modelVersion string) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if vec, ok := c.data[jobID+"|"+modelVersion]; ok {
		c.getHits++
		return vec, nil
	}
	return nil, nil
}

func (c *fakeVectorCache) SetJobTextVector(_ context.Context, jobID, modelVersion string, vector []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[jobID+"|"+modelVersion] = vector
	return nil
}

func TestRankJobsEmptyInput(t *testing.T) {
	service := NewSimilarityService(newFakeEmbedder())

	result, err := service.RankJobs(context.Background(), &types.SimilarityRequest{
		ResumeText: "gopher",
		Jobs:       []types.JobPosting{},
	})
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = service.RankJobs(context.Background(), &types.SimilarityRequest{
		ResumeText: "",
		Jobs:       []types.JobPosting{{ID: "j1", Title: "Backend"}},
	})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRankJobsOrdering(t *testing.T) {
	service := NewSimilarityService(newFakeEmbedder())

	req := &types.SimilarityRequest{
		ResumeText:   "go",
		ResumeSkills: []string{"Go"},
		Jobs: []types.JobPosting{
			{ID: "job-python", Title: "python", RequiredSkills: []string{"Python"}},
			{ID: "job-go", Title: "go", RequiredSkills: []string{"Go"}},
		},
	}

	result, err := service.RankJobs(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "job-go", result[0].JobID)
	assert.Equal(t, "job-python", result[1].JobID)
	assert.Greater(t, result[0].FinalScore, result[1].FinalScore)
	for _, scored := range result {
		assert.GreaterOrEqual(t, scored.FinalScore, 0.0)
		assert.LessOrEqual(t, scored.FinalScore, 1.0)
	}
}

func TestRankJobsStableTies(t *testing.T) {
	service := NewSimilarityService(newFakeEmbedder())

	req := &types.SimilarityRequest{
		ResumeText:   "go",
		ResumeSkills: []string{"Go"},
		Jobs: []types.JobPosting{
			{ID: "first", Title: "go", RequiredSkills: []string{"Go"}},
			{ID: "second", Title: "go", RequiredSkills: []string{"Go"}},
		},
	}

	result, err := service.RankJobs(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// 同分岗位保持输入顺序
	assert.Equal(t, "first", result[0].JobID)
	assert.Equal(t, "second", result[1].JobID)
	assert.Equal(t, result[0].FinalScore, result[1].FinalScore)
}

func TestRankJobsEmbedsSkillsInJobFullText(t *testing.T) {
	embedder := newFakeEmbedder()
	service := NewSimilarityService(embedder)

	req := &types.SimilarityRequest{
		ResumeText:   "go",
		ResumeSkills: []string{"Go"},
		Jobs: []types.JobPosting{
			{
				ID:             "j1",
				Title:          "Backend Engineer",
				Description:    "builds services",
				RequiredSkills: []string{"Go", "Kubernetes"},
			},
		},
	}

	_, err := service.RankJobs(context.Background(), req)
	require.NoError(t, err)

	// 第二阶段的岗位全文必须包含技能列表
	var jobFullText string
	for _, call := range embedder.calls {
		for _, text := range call {
			if strings.Contains(text, "Backend Engineer") {
				jobFullText = text
			}
		}
	}
	require.NotEmpty(t, jobFullText)
	assert.Contains(t, jobFullText, "Kubernetes")
}

func TestRankJobsUsesVectorCache(t *testing.T) {
	embedder := newFakeEmbedder()
	cache := newFakeVectorCache()
	service := NewSimilarityService(embedder, WithVectorCache(cache))

	req := &types.SimilarityRequest{
		ResumeText:   "go",
		ResumeSkills: []string{"Go"},
		Jobs:         []types.JobPosting{{ID: "job-go", Title: "go", RequiredSkills: []string{"Go"}}},
	}

	_, err := service.RankJobs(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, cache.getHits)
	assert.Len(t, cache.data, 1)

	_, err = service.RankJobs(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.getHits)
}

func TestParseExperienceYears(t *testing.T) {
	assert.InDelta(t, 3.5, ParseExperienceYears(json.RawMessage(`3.5`)), 0.001)
	assert.InDelta(t, 4.0, ParseExperienceYears(json.RawMessage(`"4 years"`)), 0.001)
	assert.InDelta(t, 2.0, ParseExperienceYears(json.RawMessage(`["Worked for 2 years at Acme"]`)), 0.001)
	assert.Zero(t, ParseExperienceYears(nil))
	assert.Zero(t, ParseExperienceYears(json.RawMessage(`{"bad": true}`)))
}

func TestEducationScore(t *testing.T) {
	assert.Equal(t, 1.0, educationScore([]string{"Bachelor of Computer Science"}, []string{"computer science"}))
	assert.Equal(t, 0.0, educationScore([]string{"High School"}, []string{"PhD"}))
	assert.Equal(t, 0.0, educationScore(nil, nil))
}

func TestExperienceScore(t *testing.T) {
	assert.Equal(t, 1.0, experienceScore(5, 3))
	assert.InDelta(t, 0.5, experienceScore(1.5, 3), 0.001)
	// 要求为0时按1年兜底
	assert.Equal(t, 1.0, experienceScore(2, 0))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{2, 0}), 0.001)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 0.001)
	assert.Zero(t, CosineSimilarity([]float64{1, 0}, []float64{1}))
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, ClampedCosine([]float64{1, 0}, []float64{-1, 0}))
}
