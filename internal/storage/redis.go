package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
)

// ErrNotFound 键不存在, 包装redis.Nil以便上层判断
var ErrNotFound = redis.Nil

// Redis 键值存储适配器, 承载岗位向量缓存和会话历史
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis连接并挂载OpenTelemetry追踪钩子
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis配置不能为nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	}

	client := redis.NewClient(opt)

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("挂载Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("连接Redis %s 失败: %w", cfg.Address, err)
	}

	return &Redis{Client: client, config: cfg}, nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

// Ping 探活
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// SetJobTextVector 缓存岗位全文向量
// 用HASH同时记录向量和模型版本, 模型换代后旧缓存自动失效
func (r *Redis) SetJobTextVector(ctx context.Context, jobID, modelVersion string, vector []float64) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化岗位向量失败: %w", err)
	}

	cacheKey := fmt.Sprintf(constants.KeyJobTextVector, jobID)
	pipe := r.Client.Pipeline()
	pipe.HSet(ctx, cacheKey, "vector", vectorJSON)
	pipe.HSet(ctx, cacheKey, "model_version", modelVersion)
	pipe.Expire(ctx, cacheKey, constants.JobVectorCacheDuration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入岗位向量缓存失败: %w", err)
	}
	return nil
}

// GetJobTextVector 读取岗位全文向量
// 缓存缺失或模型版本不匹配时返回nil向量和nil错误, 调用方回退到实时嵌入
func (r *Redis) GetJobTextVector(ctx context.Context, jobID, modelVersion string) ([]float64, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}

	cacheKey := fmt.Sprintf(constants.KeyJobTextVector, jobID)
	vals, err := r.Client.HMGet(ctx, cacheKey, "vector", "model_version").Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取岗位向量缓存失败: %w", err)
	}
	if len(vals) < 2 || vals[0] == nil || vals[1] == nil {
		return nil, nil
	}

	cachedVersion, ok := vals[1].(string)
	if !ok || cachedVersion != modelVersion {
		return nil, nil
	}

	vectorJSON, ok := vals[0].(string)
	if !ok || vectorJSON == "" {
		return nil, nil
	}

	var vector []float64
	if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
		return nil, fmt.Errorf("反序列化岗位向量失败: %w", err)
	}
	return vector, nil
}
