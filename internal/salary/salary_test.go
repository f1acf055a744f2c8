package salary

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float64{
			"python":     {1, 0, 0},
			"django":     {0.95, 0.31, 0},
			"excel":      {0, 0, 1},
			"javascript": {0, 1, 0},
		},
	}
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func TestGroupEducation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 博士关键词优先于硕士的弱关键词
		{"PhD, graduate degree in CS", "PhD"},
		{"Master's degree in NLP", "Masters"},
		{"BSc Computer Science", "Bachelors"},
		{"High School Diploma", "High School"},
		{"Self-taught", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GroupEducation(tt.input), "input=%q", tt.input)
	}
}

func TestCategorizeJobTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NLP Engineer", "AI Engineer/NLP/CV"},
		{"Senior Data Scientist", "Data/ML Engineer"},
		{"Backend Developer", "Software/Developer"},
		{"Engineering Manager", "Manager/Director/VP"},
		{"Chef", "Other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategorizeJobTitle(tt.input), "input=%q", tt.input)
	}
}

func TestTreePredict(t *testing.T) {
	tree := Tree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 2.5, Left: 1, Right: 2},
		{Leaf: true, Value: -1.0},
		{Leaf: true, Value: 1.0},
	}}

	assert.Equal(t, -1.0, tree.Predict([]float64{2.0}))
	assert.Equal(t, 1.0, tree.Predict([]float64{3.0}))
}

func TestRegressorGBDT(t *testing.T) {
	regressor := Regressor{
		Type:         RegressorGBDT,
		Init:         0.5,
		LearningRate: 0.1,
		Trees: []Tree{
			{Nodes: []TreeNode{{Leaf: true, Value: 2.0}}},
			{Nodes: []TreeNode{{Leaf: true, Value: 3.0}}},
		},
	}

	assert.InDelta(t, 1.0, regressor.Predict([]float64{0}), 0.001)
}

func TestScalerRoundTrip(t *testing.T) {
	scaler := Scaler{Mean: 5, Std: 2}
	assert.InDelta(t, 1.5, scaler.Scale(8), 0.001)
	assert.InDelta(t, 8.0, scaler.Inverse(1.5), 0.001)

	// std为0时退化为平移
	flat := Scaler{Mean: 3}
	assert.InDelta(t, 1.0, flat.Scale(4), 0.001)
	assert.InDelta(t, 4.0, flat.Inverse(1), 0.001)
}

func TestEstimate(t *testing.T) {
	estimator, err := NewEstimatorFromFile("testdata/salary_model.json", newFakeEmbedder())
	require.NoError(t, err)

	resp, err := estimator.Estimate(context.Background(), &types.SalaryRequest{
		CandidateSkills:     []string{"python"},
		JobRequiredSkills:   []string{"django", "excel"},
		CandidateEducation:  json.RawMessage(`["Bachelor of Science"]`),
		CandidateExperience: json.Number("5"),
		JobTitle:            "Backend Developer",
	})
	require.NoError(t, err)

	// Bachelors=2, Software/Developer=3, 年限5经标准化后为0
	// 线性回归 0.2*2+0.1*3=0.7, 反标准化 60000+0.7*20000=74000
	assert.InDelta(t, 74000.0, resp.EstimatedSalary, 0.01)
	assert.InDelta(t, 6200.0, resp.MonthlySalary, 0.01)
	assert.Equal(t, "Software/Developer", resp.JobCategory)
	assert.Equal(t, []string{"django"}, resp.MatchedSkills)
	assert.Greater(t, resp.SimilarityScore, 0.0)
	assert.LessOrEqual(t, resp.SimilarityScore, 1.0)
}

func TestEstimateLegacyFields(t *testing.T) {
	estimator, err := NewEstimatorFromFile("testdata/salary_model.json", newFakeEmbedder())
	require.NoError(t, err)

	resp, err := estimator.Estimate(context.Background(), &types.SalaryRequest{
		Skills:          []string{"python"},
		Education:       "MSc Data Science",
		ExperienceYears: json.Number("10"),
		JobTitle:        "Data Scientist",
	})
	require.NoError(t, err)

	assert.Equal(t, "Data/ML Engineer", resp.JobCategory)
	assert.Greater(t, resp.EstimatedSalary, 0.0)
}

func TestEstimateMissingInput(t *testing.T) {
	estimator, err := NewEstimatorFromFile("testdata/salary_model.json", newFakeEmbedder())
	require.NoError(t, err)

	_, err = estimator.Estimate(context.Background(), &types.SalaryRequest{
		CandidateSkills: []string{"python"},
	})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = estimator.Estimate(context.Background(), &types.SalaryRequest{
		CandidateEducation: json.RawMessage(`"BSc"`),
	})
	assert.ErrorIs(t, err, ErrMissingInput)
}
