// Package id 基于UUID的唯一标识生成
package id

import "github.com/google/uuid"

// New 生成一个新的唯一标识
// 用于用户ID、对话记录ID和请求ID
func New() string {
	return uuid.NewString()
}

// IsValid 判断给定字符串是否为合法的UUID
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
