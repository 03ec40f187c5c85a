package chat

import (
	"time"

	"docchat/internal/model/chat"
	httputil "docchat/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// 附件上传限制
const (
	MaxAttachments    = 5                // 单次提交最多附件数
	MaxAttachmentSize = 10 * 1024 * 1024 // 单个附件最大10MB
)

// AttachmentInfo 附件信息 DTO
type AttachmentInfo struct {
	Filename    string `json:"filename"`    // 原始文件名
	StorageKey  string `json:"storageKey"`  // 存储路径
	StorageURL  string `json:"storageUrl"`  // 存储URL
	ContentType string `json:"contentType"` // MIME类型
	UploadedAt  string `json:"uploadedAt"`  // 上传时间
}

// ChatInfo 对话记录 DTO
type ChatInfo struct {
	ID          string           `json:"id"`          // 记录ID
	UserID      string           `json:"userId"`      // 用户ID
	Message     string           `json:"message"`     // 用户消息
	Response    string           `json:"response"`    // 生成的应答
	Attachments []AttachmentInfo `json:"attachments"` // 附件列表
	Timestamp   string           `json:"timestamp"`   // 创建时间
}

// toChatInfo 将 Chat 实体转换为 ChatInfo DTO
func toChatInfo(c *chat.Chat) ChatInfo {
	attachments := make([]AttachmentInfo, len(c.Attachments))
	for i, att := range c.Attachments {
		attachments[i] = AttachmentInfo{
			Filename:    att.Filename,
			StorageKey:  att.StorageKey,
			StorageURL:  att.StorageURL,
			ContentType: att.ContentType,
			UploadedAt:  att.UploadedAt.Format(time.RFC3339),
		}
	}

	return ChatInfo{
		ID:          c.ID,
		UserID:      c.UserID,
		Message:     c.Message,
		Response:    c.Response,
		Attachments: attachments,
		Timestamp:   c.CreatedAt.Format(time.RFC3339),
	}
}

// toChatInfoList 将 Chat 实体列表转换为 ChatInfo DTO 列表
func toChatInfoList(chats []*chat.Chat) []ChatInfo {
	list := make([]ChatInfo, len(chats))
	for i, c := range chats {
		list[i] = toChatInfo(c)
	}
	return list
}
