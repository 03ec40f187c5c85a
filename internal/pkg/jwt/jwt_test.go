package jwt

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJWT(t *testing.T) {
	Convey("JWT 生成和验证Access Token", t, func() {
		j := NewJWT("test-secret", time.Hour)

		Convey("生成的Token可以验证并还原Claims", func() {
			token, err := j.GenerateToken("user-1", "alice")
			So(err, ShouldBeNil)
			So(token, ShouldNotBeEmpty)

			claims, err := j.ValidateToken(token)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, "user-1")
			So(claims.Username, ShouldEqual, "alice")
		})

		Convey("错误的密钥验证失败", func() {
			token, err := j.GenerateToken("user-1", "alice")
			So(err, ShouldBeNil)

			other := NewJWT("other-secret", time.Hour)
			_, err = other.ValidateToken(token)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("过期的Token返回ErrExpiredToken", func() {
			expired := NewJWT("test-secret", -time.Minute)
			token, err := expired.GenerateToken("user-1", "alice")
			So(err, ShouldBeNil)

			_, err = expired.ValidateToken(token)
			So(errors.Is(err, ErrExpiredToken), ShouldBeTrue)
		})

		Convey("非法字符串验证失败", func() {
			_, err := j.ValidateToken("not-a-token")
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	Convey("GenerateRefreshToken 生成随机Refresh Token", t, func() {
		a := GenerateRefreshToken()
		b := GenerateRefreshToken()

		So(len(a), ShouldEqual, 64) // 32字节的hex编码
		So(a, ShouldNotEqual, b)
	})
}
