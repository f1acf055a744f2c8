package constants

import "time"

const (
	// ServiceName 服务名，用于tracing resource和日志
	ServiceName = "resume-match-go"

	// DefaultExperienceYears 未检测到任何日期区间时的默认工作年限
	DefaultExperienceYears = 1.0

	// SimilarityPrefilterLimit 相似度粗排后保留的岗位数量
	SimilarityPrefilterLimit = 50
	// SimilarityResultLimit 最终返回的岗位数量
	SimilarityResultLimit = 10

	// SkillMatchThreshold 技能向量匹配的余弦相似度阈值
	SkillMatchThreshold = 0.7

	// JobVectorCacheDuration 岗位全文向量缓存时长
	JobVectorCacheDuration = 24 * time.Hour

	// ChatHistoryMaxTurns 每个会话保留的最大消息条数 (环形截断)
	ChatHistoryMaxTurns = 20
	// ChatHistoryTTL 会话历史过期时间
	ChatHistoryTTL = 2 * time.Hour
	// ChatContextWindow 生成回答时携带的最近消息条数
	ChatContextWindow = 6
)
