package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// ChatModulePrefix 聊天模块
	ChatModulePrefix = "chat"

	// EntityVector 向量实体
	EntityVector = "vector"
	// EntityHistory 会话历史实体
	EntityHistory = "history"

	// KeyJobTextVector 岗位全文向量缓存 (HASH)
	// 格式: app:job:vector:{jobID}
	KeyJobTextVector = AppPrefix + ":" + JobModulePrefix + ":" + EntityVector + ":%s"

	// KeyChatHistory 聊天会话历史 (LIST, 新消息LPUSH到头部并LTRIM限长)
	// 格式: app:chat:history:{sessionID}
	KeyChatHistory = AppPrefix + ":" + ChatModulePrefix + ":" + EntityHistory + ":%s"
)
