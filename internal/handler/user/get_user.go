package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser 获取指定用户的公开信息
// @Summary      获取用户信息
// @Description  根据用户ID获取用户的公开信息
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        userId  path      string  true  "用户ID"
// @Success      200     {object}  UserInfo
// @Failure      404     {object}  ErrorResponse
// @Router       /api/users/{userId} [get]
func (h *Handler) GetUser(c *gin.Context) {
	userID := c.Param("userId")

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
