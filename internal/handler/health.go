package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadyChecker 就绪检查函数，返回nil表示依赖可用
type ReadyChecker func(ctx context.Context) error

// HealthHandler 健康检查处理器
type HealthHandler struct {
	readyChecks []ReadyChecker
}

// NewHealthHandler 创建健康检查处理器
// checks 为就绪检查项（如MongoDB连通性），可以为空
func NewHealthHandler(checks ...ReadyChecker) *HealthHandler {
	return &HealthHandler{readyChecks: checks}
}

// Health 存活检查，进程在即返回ok
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查，任一依赖不可用返回503
func (h *HealthHandler) Ready(c *gin.Context) {
	for _, check := range h.readyChecks {
		if err := check(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
