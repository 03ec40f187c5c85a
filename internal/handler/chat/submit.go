package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/responder"
	"docchat/internal/service"
)

// Submit 提交一次对话
// @Summary      提交对话
// @Description  提交用户消息和可选附件（最多5个，单个不超过10MB），等待应答生成后返回完整记录
// @Tags         对话
// @Accept       multipart/form-data
// @Produce      json
// @Param        userId   formData  string  true   "用户ID"
// @Param        message  formData  string  false  "消息内容（与附件至少提供一个）"
// @Param        files    formData  file    false  "附件文件"
// @Success      200      {object}  ChatInfo
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Failure      504      {object}  ErrorResponse
// @Router       /api/chat [post]
func (h *Handler) Submit(c *gin.Context) {
	userID := c.PostForm("userId")
	message := c.PostForm("message")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid multipart form",
			Detail:  err.Error(),
		})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) > MaxAttachments {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40002,
			Message: fmt.Sprintf("too many attachments: at most %d files per message", MaxAttachments),
		})
		return
	}

	files := make([]service.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > MaxAttachmentSize {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40003,
				Message: fmt.Sprintf("file %q exceeds the 10MB size limit", fh.Filename),
			})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40004,
				Message: fmt.Sprintf("failed to open file %q", fh.Filename),
				Detail:  err.Error(),
			})
			return
		}
		defer f.Close()

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		files = append(files, service.FileUpload{
			Filename:    fh.Filename,
			ContentType: contentType,
			Data:        f,
		})
	}

	ctx := c.Request.Context()

	record, err := h.chatService.Submit(ctx, &service.SubmitRequest{
		UserID:  userID,
		Message: message,
		Files:   files,
	})
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 根据错误类型设置错误码
		switch {
		case errors.Is(err, service.ErrUserIDRequired):
			code = http.StatusBadRequest
			errorCode = 40005
		case errors.Is(err, service.ErrEmptyMessage):
			code = http.StatusBadRequest
			errorCode = 40006
		case errors.Is(err, responder.ErrTimeout):
			code = http.StatusGatewayTimeout
			errorCode = 50401
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toChatInfo(record))
}
