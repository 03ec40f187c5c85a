package user

import (
	"time"

	"docchat/internal/model/auth"
	httputil "docchat/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID          string `json:"id"`                    // 用户ID
	Username    string `json:"username"`              // 用户名
	Email       string `json:"email"`                 // 邮箱
	Nickname    string `json:"nickname,omitempty"`    // 昵称
	LastLoginAt string `json:"lastLoginAt,omitempty"` // 最后登录时间
	CreatedAt   string `json:"createdAt,omitempty"`   // 创建时间
}

// toUserInfo 将User实体转换为UserInfo（所有API共用）
func toUserInfo(u *auth.User) UserInfo {
	info := UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Nickname: u.Nickname,
	}

	if u.LastLoginAt != nil {
		info.LastLoginAt = u.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = u.CreatedAt.Format(time.RFC3339)

	return info
}
