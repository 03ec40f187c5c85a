package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "docchat/internal/pkg/http"
	"docchat/internal/pkg/storage"
)

// ObjectHandler 对象文件处理器
// 本地存储后端的下载URL指向本服务，由这个处理器回源文件流
type ObjectHandler struct {
	storage storage.Storage
}

// NewObjectHandler 创建对象文件处理器
func NewObjectHandler(st storage.Storage) *ObjectHandler {
	return &ObjectHandler{
		storage: st,
	}
}

// Serve 返回存储对象的文件流
func (h *ObjectHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
			Code:    40001,
			Message: "Invalid object key",
		})
		return
	}

	ctx := c.Request.Context()

	data, err := h.storage.Download(ctx, key)
	if err != nil {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{
			Code:    40401,
			Message: "文件不存在",
		})
		return
	}
	defer data.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(key)+`"`)

	// 流式传输文件
	if _, err := io.Copy(c.Writer, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to stream object")
	}
}
