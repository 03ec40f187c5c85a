package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat/internal/service"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"` // 用户名（必填，3-50字符）
	Email    string `json:"email" binding:"required,email"`           // 邮箱（必填，需符合邮箱格式）
	Password string `json:"password" binding:"required,min=6"`        // 密码（必填，至少6位）
	Nickname string `json:"nickname,omitempty"`                       // 昵称（可选）
}

// RegisterResponse 注册响应
// 注册即激活，直接返回可用的Token
type RegisterResponse struct {
	UserID       string `json:"userId"`       // 用户ID
	Username     string `json:"username"`     // 用户名
	AccessToken  string `json:"accessToken"`  // Access Token
	RefreshToken string `json:"refreshToken"` // Refresh Token
	ExpiresIn    int    `json:"expiresIn"`    // 过期时间（秒）
	TokenType    string `json:"tokenType"`    // Token类型：Bearer
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户，注册后立即可用并返回访问凭证
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  RegisterResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	// 调用Service层（传递基本类型参数，不依赖Handler层的Request类型）
	result, err := h.authService.Register(ctx, req.Username, req.Email, req.Password, req.Nickname)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		// 根据错误类型设置错误码
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			code = http.StatusConflict
			errorCode = 40901
		case errors.Is(err, service.ErrEmailTaken):
			code = http.StatusConflict
			errorCode = 40902
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		UserID:       result.User.ID,
		Username:     result.User.Username,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		TokenType:    result.Tokens.TokenType,
	})
}
