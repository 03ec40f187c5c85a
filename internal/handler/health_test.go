package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("健康检查接口", t, func() {
		Convey("存活检查始终返回ok", func() {
			engine := gin.New()
			h := NewHealthHandler()
			engine.GET("/health", h.Health)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("依赖全部可用时就绪", func() {
			engine := gin.New()
			h := NewHealthHandler(func(ctx context.Context) error { return nil })
			engine.GET("/ready", h.Ready)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ready"`)
		})

		Convey("依赖不可用时返回503", func() {
			engine := gin.New()
			h := NewHealthHandler(func(ctx context.Context) error {
				return errors.New("mongodb unreachable")
			})
			engine.GET("/ready", h.Ready)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(rec.Body.String(), ShouldContainSubstring, "mongodb unreachable")
		})
	})
}
