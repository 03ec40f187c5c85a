package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/service"
)

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"` // Refresh Token（必填）
}

// RefreshTokenResponse 刷新Token响应
type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"` // Access Token
	ExpiresIn   int    `json:"expiresIn"`   // 过期时间（秒）
	TokenType   string `json:"tokenType"`   // Token类型：Bearer
}

// Refresh 刷新Token
// @Summary      刷新Token
// @Description  使用Refresh Token刷新Access Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshTokenRequest  true  "刷新Token请求"
// @Success      200      {object}  RefreshTokenResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/users/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.authService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 根据错误类型设置错误码
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			code = http.StatusUnauthorized
			errorCode = 40102
		case errors.Is(err, service.ErrExpiredToken):
			code = http.StatusUnauthorized
			errorCode = 40103
		case errors.Is(err, service.ErrUserNotFound):
			code = http.StatusUnauthorized
			errorCode = 40101
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, RefreshTokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		TokenType:   result.TokenType,
	})
}
