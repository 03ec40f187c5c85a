package chat

import (
	"docchat/internal/service"
)

// Handler 对话处理器
// 所有chat相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	chatService *service.ChatService
}

// NewHandler 创建对话处理器
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{
		chatService: chatService,
	}
}
