package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalStorage(t *testing.T) {
	Convey("LocalStorage 本地文件系统存储", t, func() {
		ctx := context.Background()
		basePath := t.TempDir()

		st, err := NewLocalStorage(basePath, "http://localhost:8080/storage/", 3600)
		So(err, ShouldBeNil)
		So(st.GetStorageType(), ShouldEqual, "local")

		Convey("上传文件并返回访问URL", func() {
			url, err := st.Upload(ctx, "uploads/u1/a.txt", strings.NewReader("hello"), "text/plain")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "http://localhost:8080/storage/uploads/u1/a.txt")

			content, err := os.ReadFile(filepath.Join(basePath, "uploads/u1/a.txt"))
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "hello")
		})

		Convey("下载已上传的文件", func() {
			_, err := st.Upload(ctx, "uploads/u1/b.txt", strings.NewReader("world"), "text/plain")
			So(err, ShouldBeNil)

			rc, err := st.Download(ctx, "uploads/u1/b.txt")
			So(err, ShouldBeNil)
			defer rc.Close()

			content, err := io.ReadAll(rc)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "world")
		})

		Convey("下载不存在的文件返回错误", func() {
			_, err := st.Download(ctx, "uploads/u1/missing.txt")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "file not found")
		})

		Convey("预签名URL与文件URL一致", func() {
			url, err := st.GetPresignedDownloadURL(ctx, "uploads/u1/c.txt", time.Hour)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "http://localhost:8080/storage/uploads/u1/c.txt")
		})

		Convey("删除文件", func() {
			_, err := st.Upload(ctx, "uploads/u1/d.txt", strings.NewReader("bye"), "text/plain")
			So(err, ShouldBeNil)

			So(st.Delete(ctx, "uploads/u1/d.txt"), ShouldBeNil)

			_, err = os.Stat(filepath.Join(basePath, "uploads/u1/d.txt"))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("删除不存在的文件视为成功", func() {
			So(st.Delete(ctx, "uploads/u1/missing.txt"), ShouldBeNil)
		})
	})
}

func TestLocalStoragePathEscape(t *testing.T) {
	Convey("LocalStorage 拒绝逃出基础路径的key", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		basePath := filepath.Join(root, "data")

		// 基础路径之外的敏感文件，任何key都不应该触达它
		secretPath := filepath.Join(root, "secret.txt")
		So(os.WriteFile(secretPath, []byte("top-secret"), 0644), ShouldBeNil)

		st, err := NewLocalStorage(basePath, "http://localhost:8080/storage", 3600)
		So(err, ShouldBeNil)

		Convey("下载带 .. 的key返回错误", func() {
			_, err := st.Download(ctx, "../secret.txt")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid key")
		})

		Convey("多级 .. 同样被拒绝", func() {
			_, err := st.Download(ctx, "uploads/../../secret.txt")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid key")
		})

		Convey("上传带 .. 的key返回错误", func() {
			_, err := st.Upload(ctx, "../evil.txt", strings.NewReader("x"), "text/plain")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid key")

			_, statErr := os.Stat(filepath.Join(root, "evil.txt"))
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("删除带 .. 的key返回错误且不影响外部文件", func() {
			err := st.Delete(ctx, "../secret.txt")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid key")

			content, readErr := os.ReadFile(secretPath)
			So(readErr, ShouldBeNil)
			So(string(content), ShouldEqual, "top-secret")
		})

		Convey("基础路径内的正常key不受影响", func() {
			_, err := st.Upload(ctx, "uploads/u1/ok.txt", strings.NewReader("fine"), "text/plain")
			So(err, ShouldBeNil)

			rc, err := st.Download(ctx, "uploads/u1/ok.txt")
			So(err, ShouldBeNil)
			defer rc.Close()

			content, err := io.ReadAll(rc)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "fine")
		})
	})
}
