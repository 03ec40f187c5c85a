package oss

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// expiresAt 解析签名URL中的Expires参数
func expiresAt(t *testing.T, signedURL string) time.Time {
	t.Helper()
	u, err := url.Parse(signedURL)
	if err != nil {
		t.Fatalf("failed to parse signed URL: %v", err)
	}
	sec, err := strconv.ParseInt(u.Query().Get("Expires"), 10, 64)
	if err != nil {
		t.Fatalf("failed to parse Expires param: %v", err)
	}
	return time.Unix(sec, 0)
}

func TestOSSStorage_GetPresignedDownloadURL(t *testing.T) {
	Convey("OSSStorage.GetPresignedDownloadURL 生成签名下载URL", t, func() {
		ctx := context.Background()

		Convey("未配置过期上限时使用请求的有效期", func() {
			st, err := NewOSSStorage("oss-cn-hangzhou.aliyuncs.com", "test-bucket", "test-ak", "test-sk", 0)
			So(err, ShouldBeNil)

			signedURL, err := st.GetPresignedDownloadURL(ctx, "uploads/u1/a.txt", time.Hour)
			So(err, ShouldBeNil)

			remaining := time.Until(expiresAt(t, signedURL))
			So(remaining, ShouldBeGreaterThan, 55*time.Minute)
			So(remaining, ShouldBeLessThanOrEqualTo, time.Hour)
		})

		Convey("配置的过期上限小于请求值时生效", func() {
			st, err := NewOSSStorage("oss-cn-hangzhou.aliyuncs.com", "test-bucket", "test-ak", "test-sk", 60)
			So(err, ShouldBeNil)

			signedURL, err := st.GetPresignedDownloadURL(ctx, "uploads/u1/a.txt", time.Hour)
			So(err, ShouldBeNil)

			remaining := time.Until(expiresAt(t, signedURL))
			So(remaining, ShouldBeLessThanOrEqualTo, time.Minute)
		})
	})
}
