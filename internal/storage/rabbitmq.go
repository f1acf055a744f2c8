package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resume-match-go/internal/config"
)

// AnalysisCompletedEvent 简历分析完成事件, 发布给下游消费方
type AnalysisCompletedEvent struct {
	SubmissionUUID           string    `json:"submission_uuid"`
	SourceChannel            string    `json:"source_channel,omitempty"`
	Email                    string    `json:"email,omitempty"`
	SkillCount               int       `json:"skill_count"`
	EstimatedExperienceYears float64   `json:"estimated_experience_years"`
	CompletedAt              time.Time `json:"completed_at"`
}

// RabbitMQ 消息队列适配器, 只负责发布分析完成事件
type RabbitMQ struct {
	conn   *amqp.Connection
	config *config.RabbitMQConfig

	mu      sync.Mutex
	channel *amqp.Channel
}

// NewRabbitMQ 建立连接并声明分析事件交换机
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq地址不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	r := &RabbitMQ{conn: conn, config: cfg}
	if cfg.AnalysisExchange != "" {
		if err := r.ensureExchange(cfg.AnalysisExchange); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *RabbitMQ) ensureExchange(name string) error {
	ch, err := r.getChannel()
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(name, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明交换机 %s 失败: %w", name, err)
	}
	return nil
}

// getChannel 懒创建并复用单个channel, 断开后重建
func (r *RabbitMQ) getChannel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil && !r.channel.IsClosed() {
		return r.channel, nil
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("打开channel失败: %w", err)
	}
	r.channel = ch
	return ch, nil
}

// PublishJSON 发布JSON消息到指定交换机
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchange, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	ch, err := r.getChannel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布消息到 %s/%s 失败: %w", exchange, routingKey, err)
	}
	return nil
}

// PublishAnalysisCompleted 发布分析完成事件
func (r *RabbitMQ) PublishAnalysisCompleted(ctx context.Context, event *AnalysisCompletedEvent) error {
	if r.config.AnalysisExchange == "" {
		return nil
	}
	return r.PublishJSON(ctx, r.config.AnalysisExchange, r.config.AnalyzedRoutingKey, event)
}

// Close 关闭channel和连接
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	if r.channel != nil && !r.channel.IsClosed() {
		r.channel.Close()
	}
	r.mu.Unlock()

	if r.conn != nil && !r.conn.IsClosed() {
		return r.conn.Close()
	}
	return nil
}
