package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/service"
)

// Delete 删除一条对话记录
// @Summary      删除对话记录
// @Description  删除指定的对话记录，并尽力清理其关联的附件对象
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        chatId  path      string  true  "记录ID"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/chats/{chatId} [delete]
func (h *Handler) Delete(c *gin.Context) {
	chatID := c.Param("chatId")

	ctx := c.Request.Context()

	if err := h.chatService.Delete(ctx, chatID); err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		if errors.Is(err, service.ErrChatNotFound) {
			code = http.StatusNotFound
			errorCode = 40401
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "chat deleted",
		"chatId":  chatID,
	})
}
