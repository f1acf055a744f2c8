package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"resume-match-go/internal/constants"
)

// RedisChatMemory ChatMemory的Redis实现
// 用LPUSH+LTRIM维护定长环, 防止长会话无限占用内存, 并带整体过期时间
type RedisChatMemory struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

// RedisChatMemoryOption RedisChatMemory的配置选项
type RedisChatMemoryOption func(*RedisChatMemory)

// WithMaxTurns 设置保留的最大对话轮数, 一轮为一问一答两条消息
func WithMaxTurns(turns int) RedisChatMemoryOption {
	return func(m *RedisChatMemory) {
		if turns > 0 {
			m.maxTurns = turns
		}
	}
}

// WithHistoryTTL 设置会话历史过期时间, 0表示不过期
func WithHistoryTTL(ttl time.Duration) RedisChatMemoryOption {
	return func(m *RedisChatMemory) {
		m.ttl = ttl
	}
}

// NewRedisChatMemory 创建Redis会话存储
func NewRedisChatMemory(client *redis.Client, options ...RedisChatMemoryOption) (*RedisChatMemory, error) {
	if client == nil {
		return nil, fmt.Errorf("redis客户端不能为nil")
	}

	memory := &RedisChatMemory{
		client:   client,
		maxTurns: constants.ChatHistoryMaxTurns,
		ttl:      constants.ChatHistoryTTL,
	}
	for _, opt := range options {
		opt(memory)
	}
	return memory, nil
}

func (m *RedisChatMemory) buildKey(sessionID string) string {
	return fmt.Sprintf(constants.KeyChatHistory, sessionID)
}

// GetHistory 实现 ChatMemory 接口
// 列表里新消息在前, 返回前反转成时间顺序
func (m *RedisChatMemory) GetHistory(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	serialized, err := m.client.LRange(ctx, m.buildKey(sessionID), 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return []*schema.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话 %s 的历史失败: %w", sessionID, err)
	}

	messages := make([]*schema.Message, 0, len(serialized))
	for i := len(serialized) - 1; i >= 0; i-- {
		var msg schema.Message
		if err := json.Unmarshal([]byte(serialized[i]), &msg); err != nil {
			return nil, fmt.Errorf("反序列化会话 %s 的消息失败: %w", sessionID, err)
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

// AddMessages 实现 ChatMemory 接口
// 写入后立刻LTRIM裁剪到定长并续期, 三个命令在同一事务管道里执行
func (m *RedisChatMemory) AddMessages(ctx context.Context, sessionID string, messages []*schema.Message) error {
	if len(messages) == 0 {
		return nil
	}

	serialized := make([]interface{}, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			return fmt.Errorf("会话 %s 的消息批次中存在nil消息", sessionID)
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("序列化会话 %s 的消息失败: %w", sessionID, err)
		}
		serialized = append(serialized, data)
	}

	// LPUSH要求参数顺序与插入顺序相反, 先反转保证最新消息排在表头
	for i, j := 0, len(serialized)-1; i < j; i, j = i+1, j-1 {
		serialized[i], serialized[j] = serialized[j], serialized[i]
	}

	key := m.buildKey(sessionID)
	pipe := m.client.TxPipeline()
	pipe.LPush(ctx, key, serialized...)
	pipe.LTrim(ctx, key, 0, int64(m.maxTurns*2-1))
	if m.ttl > 0 {
		pipe.Expire(ctx, key, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入会话 %s 的历史失败: %w", sessionID, err)
	}
	return nil
}

// ClearHistory 实现 ChatMemory 接口
func (m *RedisChatMemory) ClearHistory(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, m.buildKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("清除会话 %s 的历史失败: %w", sessionID, err)
	}
	return nil
}
