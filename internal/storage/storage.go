package storage

import (
	"fmt"
	"strings"

	"resume-match-go/internal/config"
	"resume-match-go/internal/logger"
)

// Storage 存储管理器, 聚合所有存储依赖
// 各组件按配置可选, 未配置的保持nil, 调用方需判空降级
type Storage struct {
	// 对象存储, 保存原始简历文件
	MinIO *MinIO

	// 消息队列, 发布分析完成事件
	RabbitMQ *RabbitMQ

	// 关系型数据库, 保存分析记录
	MySQL *MySQL

	// 键值存储, 岗位向量缓存和会话历史
	Redis *Redis
}

// NewStorage 按配置逐个初始化存储组件
// 单个组件失败只记告警, 全部失败才返回错误
func NewStorage(cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var initErrors []string
	configured := 0

	if cfg.MinIO.Endpoint != "" {
		configured++
		m, err := NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			storage.MinIO = m
			logger.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO客户端初始化成功")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		configured++
		rmq, err := NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		} else {
			storage.RabbitMQ = rmq
			logger.Info().Msg("RabbitMQ连接初始化成功")
		}
	}

	if cfg.MySQL.Host != "" {
		configured++
		db, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		} else {
			storage.MySQL = db
			logger.Info().Str("host", cfg.MySQL.Host).Msg("MySQL连接初始化成功")
		}
	}

	if cfg.Redis.Address != "" {
		configured++
		r, err := NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			storage.Redis = r
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis连接初始化成功")
		}
	}

	if configured > 0 && len(initErrors) == configured {
		return nil, fmt.Errorf("所有已配置的存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}
	return storage, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO客户端无需显式关闭
}
