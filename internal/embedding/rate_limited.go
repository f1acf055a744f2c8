package embedding

import (
	"context"
	"time"

	"resume-match-go/internal/ratelimit"
)

// RateLimitedEmbedder 对向量化调用进行限流的代理
type RateLimitedEmbedder struct {
	original    TextEmbedder
	rateLimiter *ratelimit.TokenBucket
}

// NewRateLimitedEmbedder 创建一个新的限流代理
func NewRateLimitedEmbedder(original TextEmbedder, qpm int) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{
		original:    original,
		rateLimiter: ratelimit.NewTokenBucket(qpm, qpm/2),
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimitedEmbedder) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedEmbedder {
	rl.rateLimiter.WithRetryPolicy(waitTime, maxRetries)
	return rl
}

// EmbedStrings 代理EmbedStrings方法，增加限流和重试逻辑
func (rl *RateLimitedEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	var vectors [][]float64

	err := rl.rateLimiter.RetryWithBackoff(ctx, func() error {
		var embErr error
		vectors, embErr = rl.original.EmbedStrings(ctx, texts)
		return embErr
	})

	return vectors, err
}

// GetDimensions 返回底层Embedder的向量维度
func (rl *RateLimitedEmbedder) GetDimensions() int {
	return rl.original.GetDimensions()
}

// ModelVersion 返回底层Embedder的模型标识
func (rl *RateLimitedEmbedder) ModelVersion() string {
	return rl.original.ModelVersion()
}
