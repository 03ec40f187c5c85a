package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/service"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID       string `json:"userId"`       // 用户ID
	Username     string `json:"username"`     // 用户名
	AccessToken  string `json:"accessToken"`  // Access Token
	RefreshToken string `json:"refreshToken"` // Refresh Token
	ExpiresIn    int    `json:"expiresIn"`    // 过期时间（秒）
	TokenType    string `json:"tokenType"`    // Token类型：Bearer
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户登录，返回Access Token和Refresh Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 用户不存在和密码错误统一返回401，避免泄露用户是否存在
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrInvalidPassword):
			code = http.StatusUnauthorized
			errorCode = 40101
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		UserID:       result.User.ID,
		Username:     result.User.Username,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		TokenType:    result.Tokens.TokenType,
	})
}
