package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logout 退出登录
// @Summary      退出登录
// @Description  退出登录，删除服务端的Refresh Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /api/users/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	// 从请求头获取Refresh Token（如果存在）
	refreshToken := c.GetHeader("X-Refresh-Token")
	if refreshToken == "" {
		// 也可以从body获取
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "refreshToken is required",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.authService.Logout(ctx, refreshToken); err != nil {
		// 记录错误但不影响响应
		log.Warn().Err(err).Msg("failed to delete refresh token on logout")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logged out",
	})
}
