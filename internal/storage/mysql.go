package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-match-go/internal/config"
	"resume-match-go/internal/storage/models"
)

// MySQL 关系型存储适配器, 保存简历分析记录
type MySQL struct {
	db *gorm.DB
}

// NewMySQL 建立连接, 配置连接池并自动建表
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql配置不能为nil")
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := db.AutoMigrate(&models.ResumeAnalysis{}); err != nil {
		return nil, fmt.Errorf("自动迁移表结构失败: %w", err)
	}

	return &MySQL{db: db}, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// DB 暴露gorm句柄
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭连接池
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveResumeAnalysis 保存一条分析记录, 同一submission_uuid重复提交时整行覆盖
func (m *MySQL) SaveResumeAnalysis(ctx context.Context, record *models.ResumeAnalysis) error {
	if record == nil || record.SubmissionUUID == "" {
		return fmt.Errorf("分析记录缺少submission_uuid")
	}
	if err := m.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("保存分析记录失败: %w", err)
	}
	return nil
}

// GetResumeAnalysis 按submission_uuid查询分析记录
func (m *MySQL) GetResumeAnalysis(ctx context.Context, submissionUUID string) (*models.ResumeAnalysis, error) {
	var record models.ResumeAnalysis
	err := m.db.WithContext(ctx).Where("submission_uuid = ?", submissionUUID).First(&record).Error
	if err != nil {
		return nil, fmt.Errorf("查询分析记录 %s 失败: %w", submissionUUID, err)
	}
	return &record, nil
}
