package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/pkg/ctxutil"
)

// GetMe 获取当前用户信息
// @Summary      获取当前用户信息
// @Description  获取当前登录用户的详细信息
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserInfo
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	// 用户ID由认证中间件注入
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	u, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40401,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toUserInfo(u))
}
