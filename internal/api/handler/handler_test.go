package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/chatbot"
	"resume-match-go/internal/llm"
	"resume-match-go/internal/salary"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/types"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, 0, len(texts))
	for range texts {
		result = append(result, []float64{1, 0, 0})
	}
	return result, nil
}

func (f *fakeEmbedder) GetDimensions() int   { return 3 }
func (f *fakeEmbedder) ModelVersion() string { return "fake-v1" }

func newTestEngine() *route.Engine {
	return route.NewEngine(hertzconfig.NewOptions(nil))
}

func performJSON(t *testing.T, engine *route.Engine, path string, payload string) *ut.ResponseRecorder {
	t.Helper()
	body := bytes.NewBufferString(payload)
	return ut.PerformRequest(engine, "POST", path,
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func TestHandleSimilarityEmptyJobs(t *testing.T) {
	engine := newTestEngine()
	h := NewMatchHandler(scoring.NewSimilarityService(&fakeEmbedder{}), scoring.NewAcceptanceService(&fakeEmbedder{}))
	engine.POST("/get-similarity", h.HandleSimilarity)

	resp := performJSON(t, engine, "/get-similarity", `{"resume_text": "go dev", "jobs": []}`)
	require.Equal(t, 200, resp.Code)

	var result []types.ScoredJob
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Empty(t, result)
}

func TestHandleSimilarityBadJSON(t *testing.T) {
	engine := newTestEngine()
	h := NewMatchHandler(scoring.NewSimilarityService(&fakeEmbedder{}), scoring.NewAcceptanceService(&fakeEmbedder{}))
	engine.POST("/get-similarity", h.HandleSimilarity)

	resp := performJSON(t, engine, "/get-similarity", `{not json`)
	assert.Equal(t, 400, resp.Code)
}

func TestHandleAcceptance(t *testing.T) {
	engine := newTestEngine()
	h := NewMatchHandler(scoring.NewSimilarityService(&fakeEmbedder{}), scoring.NewAcceptanceService(&fakeEmbedder{}))
	engine.POST("/predict-acceptance", h.HandleAcceptance)

	resp := performJSON(t, engine, "/predict-acceptance",
		`{"candidate_skills": ["go"], "job_title": "backend", "job_required_skills": ["go"], "job_description": "go service"}`)
	require.Equal(t, 200, resp.Code)

	var result types.AcceptanceResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.GreaterOrEqual(t, result.AcceptanceScore, 0.0)
	assert.LessOrEqual(t, result.AcceptanceScore, 1.0)
	assert.Equal(t, []string{"go"}, result.MatchedSkills)
}

func testSalaryHandler() *SalaryHandler {
	model := &salary.Model{
		EduImportance: map[string]float64{"Bachelors": 2, "Other": 0},
		JobImportance: map[string]float64{"Software/Developer": 3, "Other": 1},
		FeatureScaler: salary.Scaler{Mean: 5, Std: 5},
		TargetScaler:  salary.Scaler{Mean: 60000, Std: 20000},
		Regressor:     salary.Regressor{Type: salary.RegressorLinear, Coefficients: []float64{0.2, 0.1, 0.5}},
	}
	return NewSalaryHandler(salary.NewEstimator(model, &fakeEmbedder{}))
}

func TestHandleSalaryMissingInput(t *testing.T) {
	engine := newTestEngine()
	engine.POST("/predict-salary", testSalaryHandler().HandleSalary)

	resp := performJSON(t, engine, "/predict-salary", `{"candidate_skills": ["go"]}`)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Body.String(), "Missing candidate education or skills")
}

func TestHandleSalaryOK(t *testing.T) {
	engine := newTestEngine()
	engine.POST("/predict-salary", testSalaryHandler().HandleSalary)

	resp := performJSON(t, engine, "/predict-salary",
		`{"candidate_skills": ["go"], "candidate_education": "BSc", "candidate_experience": 5, "job_title": "Backend Developer"}`)
	require.Equal(t, 200, resp.Code)

	var result types.SalaryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Greater(t, result.EstimatedSalary, 0.0)
	assert.Greater(t, result.MonthlySalary, 0.0)
	assert.Equal(t, "Software/Developer", result.JobCategory)
}

func TestHandleEmbedding(t *testing.T) {
	engine := newTestEngine()
	engine.POST("/get-embedding", NewEmbeddingHandler(&fakeEmbedder{}).HandleEmbedding)

	resp := performJSON(t, engine, "/get-embedding", `{"texts": ["a", "b"]}`)
	require.Equal(t, 200, resp.Code)

	var result types.EmbeddingResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Len(t, result.Embedding, 3)
	assert.Empty(t, result.Embeddings)

	resp = performJSON(t, engine, "/get-embedding", `{"texts": ["a", "b"], "mode": "matrix"}`)
	require.Equal(t, 200, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Len(t, result.Embeddings, 2)

	// 空输入返回200和空向量, 不是错误
	resp = performJSON(t, engine, "/get-embedding", `{"texts": []}`)
	require.Equal(t, 200, resp.Code)
	var empty types.EmbeddingResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &empty))
	assert.Empty(t, empty.Embedding)
	assert.Empty(t, empty.Embeddings)

	resp = performJSON(t, engine, "/get-embedding", `{"texts": [], "mode": "matrix"}`)
	require.Equal(t, 200, resp.Code)
}

func TestHandleChatEmptyMessage(t *testing.T) {
	engine := newTestEngine()
	bot := chatbot.NewBot(chatbot.NewFAQStore(nil), &llm.MockChatModel{Responses: []string{"ok"}})
	engine.POST("/get", NewChatHandler(bot).HandleChat)

	body := bytes.NewBufferString("msg=")
	resp := ut.PerformRequest(engine, "POST", "/get",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"},
	)
	require.Equal(t, 200, resp.Code)
	assert.Equal(t, "سؤال فارغ", resp.Body.String())
}

func TestHandleChat(t *testing.T) {
	engine := newTestEngine()
	bot := chatbot.NewBot(chatbot.NewFAQStore(nil), &llm.MockChatModel{Responses: []string{"أهلاً بك"}})
	engine.POST("/get", NewChatHandler(bot).HandleChat)

	body := bytes.NewBufferString("msg=مرحبا&session_id=s1")
	resp := ut.PerformRequest(engine, "POST", "/get",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"},
	)
	require.Equal(t, 200, resp.Code)
	assert.Equal(t, "أهلاً بك", resp.Body.String())
}

func TestHandleAnalyzeMissingFilePath(t *testing.T) {
	engine := newTestEngine()
	engine.POST("/analyze", NewAnalyzeHandler(nil, nil, nil).HandleAnalyze)

	resp := performJSON(t, engine, "/analyze", `{}`)
	assert.Equal(t, 400, resp.Code)
}
