package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeAnalysis 一次简历分析的落库记录
// 原始文件在对象存储里, 这里只存解析产物和回溯所需的元数据
type ResumeAnalysis struct {
	SubmissionUUID string `gorm:"column:submission_uuid;type:varchar(36);primaryKey"`

	SourceChannel   string `gorm:"column:source_channel;type:varchar(64);index"`
	OriginalFileKey string `gorm:"column:original_file_key;type:varchar(512)"`

	Email string `gorm:"column:email;type:varchar(255);index"`
	Phone string `gorm:"column:phone;type:varchar(64)"`

	// LLM解析出的结构化字段, 整体存JSON
	ParserOutput datatypes.JSON `gorm:"column:parser_output;type:json"`

	EstimatedExperienceYears float64 `gorm:"column:estimated_experience_years"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName 指定表名
func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}
