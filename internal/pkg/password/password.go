// Package password 用户密码的哈希与校验
package password

import "golang.org/x/crypto/bcrypt"

// hashCost bcrypt哈希强度，沿用库默认值
const hashCost = bcrypt.DefaultCost

// Hash 对明文密码做bcrypt哈希，数据库只保存哈希值
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify 校验明文密码与已存哈希是否匹配
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
