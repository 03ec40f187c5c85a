package middleware

import (
	"github.com/gin-gonic/gin"

	"docchat/internal/pkg/id"
)

// RequestIDHeader 请求ID的Header名称
const RequestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 优先使用调用方传入的 X-Request-ID，否则生成新的UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}
