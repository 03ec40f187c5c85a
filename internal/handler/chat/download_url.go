package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/service"
)

// DownloadURLResponse 下载URL响应
type DownloadURLResponse struct {
	Filename    string `json:"filename"`    // 文件名
	DownloadURL string `json:"downloadUrl"` // 签名下载URL（有效期1小时）
}

// GetDownloadURL 获取附件的签名下载URL
// @Summary      获取附件下载URL
// @Description  根据用户ID和文件名查找附件，返回签名下载URL；同名文件取最新记录
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        userId    path      string  true  "用户ID"
// @Param        filename  path      string  true  "文件名"
// @Success      200       {object}  DownloadURLResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /api/files/{userId}/{filename} [get]
func (h *Handler) GetDownloadURL(c *gin.Context) {
	userID := c.Param("userId")
	filename := c.Param("filename")

	ctx := c.Request.Context()

	url, err := h.chatService.DownloadURL(ctx, userID, filename)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch {
		case errors.Is(err, service.ErrFileNotFound),
			errors.Is(err, service.ErrUserIDRequired):
			code = http.StatusNotFound
			errorCode = 40401
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{
		Filename:    filename,
		DownloadURL: url,
	})
}
