package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"

	"docchat/internal/model/chat"
	"docchat/internal/responder"
	"docchat/internal/service"
)

// fakeChatStore 内存版对话存储
type fakeChatStore struct {
	mu      sync.Mutex
	chats   []*chat.Chat
	nextID  int
	findErr error // 非空时查询方法直接返回该错误
}

func (s *fakeChatStore) Create(ctx context.Context, c *chat.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = fmt.Sprintf("chat-%d", s.nextID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.chats = append(s.chats, c)
	return nil
}

func (s *fakeChatStore) FindByID(ctx context.Context, chatID string) (*chat.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, c := range s.chats {
		if c.ID == chatID {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeChatStore) ListByUserID(ctx context.Context, userID string, limit, offset int64) ([]*chat.Chat, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*chat.Chat
	for i := len(s.chats) - 1; i >= 0; i-- {
		if s.chats[i].UserID == userID {
			matched = append(matched, s.chats[i])
		}
	}
	total := int64(len(matched))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeChatStore) FindByUserAndFilename(ctx context.Context, userID, filename string) (*chat.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := len(s.chats) - 1; i >= 0; i-- {
		c := s.chats[i]
		if c.UserID != userID {
			continue
		}
		for _, att := range c.Attachments {
			if att.Filename == filename {
				return c, nil
			}
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeChatStore) Delete(ctx context.Context, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.chats {
		if c.ID == chatID {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeStorage 内存版对象存储
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, _ := io.ReadAll(data)
	s.objects[key] = b
	return "http://storage.test/" + key, nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeStorage) GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return "http://storage.test/signed/" + key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) GetStorageType() string {
	return "fake"
}

// fakeResponder 固定应答的应答后端
type fakeResponder struct {
	answer string
	err    error
}

func (r *fakeResponder) Generate(ctx context.Context, payload *responder.Payload, attachmentURLs []string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.answer, nil
}

func setupRouter(store *fakeChatStore, rsp *fakeResponder) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewChatService(store, newFakeStorage(), rsp, nil)
	h := NewHandler(svc)

	engine := gin.New()
	engine.POST("/api/chat", h.Submit)
	engine.GET("/api/chats/:userId", h.History)
	engine.DELETE("/api/chats/:chatId", h.Delete)
	engine.GET("/api/files/:userId/:filename", h.GetDownloadURL)
	return engine
}

// multipartBody 构造multipart请求体
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func TestSubmit(t *testing.T) {
	Convey("POST /api/chat 提交对话", t, func() {
		store := &fakeChatStore{}
		engine := setupRouter(store, &fakeResponder{answer: "the answer"})

		doSubmit := func(fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
			body, contentType := multipartBody(t, fields, files)
			req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			return rec
		}

		Convey("纯文本消息返回完整记录", func() {
			rec := doSubmit(map[string]string{"userId": "u1", "message": "hello"}, nil)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp ChatInfo
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.ID, ShouldNotBeEmpty)
			So(resp.UserID, ShouldEqual, "u1")
			So(resp.Message, ShouldEqual, "hello")
			So(resp.Response, ShouldEqual, "the answer")
			So(resp.Attachments, ShouldBeEmpty)
		})

		Convey("携带附件的提交返回附件信息", func() {
			rec := doSubmit(
				map[string]string{"userId": "u1", "message": "see attached"},
				map[string][]byte{"a.txt": []byte("aaa"), "b.txt": []byte("bbb")},
			)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp ChatInfo
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp.Attachments), ShouldEqual, 2)
			So(resp.Attachments[0].StorageKey, ShouldNotBeEmpty)
			So(resp.Attachments[0].StorageURL, ShouldNotBeEmpty)
		})

		Convey("缺少userId返回400", func() {
			rec := doSubmit(map[string]string{"message": "hello"}, nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("消息和附件都为空返回400", func() {
			rec := doSubmit(map[string]string{"userId": "u1"}, nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("附件超过5个返回400", func() {
			files := make(map[string][]byte)
			for i := 0; i < 6; i++ {
				files[fmt.Sprintf("f%d.txt", i)] = []byte("x")
			}
			rec := doSubmit(map[string]string{"userId": "u1", "message": "too many"}, files)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("单个附件超过10MB返回400", func() {
			rec := doSubmit(
				map[string]string{"userId": "u1", "message": "too big"},
				map[string][]byte{"big.bin": bytes.Repeat([]byte("x"), MaxAttachmentSize+1)},
			)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("应答超时返回504", func() {
			timeoutEngine := setupRouter(&fakeChatStore{}, &fakeResponder{err: responder.ErrTimeout})
			body, contentType := multipartBody(t, map[string]string{"userId": "u1", "message": "hi"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			timeoutEngine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusGatewayTimeout)
		})

		Convey("应答脚本失败返回500", func() {
			failEngine := setupRouter(&fakeChatStore{}, &fakeResponder{
				err: &responder.InvokeError{ExitCode: 1, Stderr: "boom"},
			})
			body, contentType := multipartBody(t, map[string]string{"userId": "u1", "message": "hi"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			failEngine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("GET /api/chats/:userId 查询历史", t, func() {
		store := &fakeChatStore{}
		engine := setupRouter(store, &fakeResponder{answer: "ok"})

		for i := 0; i < 25; i++ {
			record := &chat.Chat{UserID: "u1", Message: fmt.Sprintf("msg-%d", i), Response: "ok"}
			So(store.Create(context.Background(), record), ShouldBeNil)
		}

		doHistory := func(path string) (*httptest.ResponseRecorder, HistoryResponse) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			var resp HistoryResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			return rec, resp
		}

		Convey("默认分页返回20条", func() {
			rec, resp := doHistory("/api/chats/u1")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 25)
			So(resp.TotalPages, ShouldEqual, 2)
			So(resp.CurrentPage, ShouldEqual, 1)
			So(len(resp.Chats), ShouldEqual, 20)
			So(resp.Chats[0].Message, ShouldEqual, "msg-24")
		})

		Convey("第二页返回剩余记录", func() {
			rec, resp := doHistory("/api/chats/u1?page=2&limit=20")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(resp.CurrentPage, ShouldEqual, 2)
			So(len(resp.Chats), ShouldEqual, 5)
		})

		Convey("没有记录的用户返回空列表", func() {
			rec, resp := doHistory("/api/chats/nobody")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(resp.Total, ShouldEqual, 0)
			So(resp.Chats, ShouldBeEmpty)
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("DELETE /api/chats/:chatId 删除记录", t, func() {
		store := &fakeChatStore{}
		engine := setupRouter(store, &fakeResponder{answer: "ok"})

		Convey("记录不存在返回404", func() {
			req := httptest.NewRequest(http.MethodDelete, "/api/chats/missing", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("存储查询出错返回500而非404", func() {
			store.findErr = errors.New("connection reset")
			defer func() { store.findErr = nil }()

			req := httptest.NewRequest(http.MethodDelete, "/api/chats/chat-1", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("删除成功返回确认", func() {
			record := &chat.Chat{UserID: "u1", Message: "hi", Response: "ok"}
			So(store.Create(context.Background(), record), ShouldBeNil)

			req := httptest.NewRequest(http.MethodDelete, "/api/chats/"+record.ID, nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, record.ID)

			_, err := store.FindByID(context.Background(), record.ID)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGetDownloadURL(t *testing.T) {
	Convey("GET /api/files/:userId/:filename 获取下载URL", t, func() {
		store := &fakeChatStore{}
		engine := setupRouter(store, &fakeResponder{answer: "ok"})

		record := &chat.Chat{
			UserID:   "u1",
			Message:  "with file",
			Response: "ok",
			Attachments: []chat.Attachment{
				{Filename: "report.pdf", StorageKey: "uploads/u1/1-report.pdf"},
			},
		}
		So(store.Create(context.Background(), record), ShouldBeNil)

		Convey("返回签名下载URL", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/files/u1/report.pdf", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp DownloadURLResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Filename, ShouldEqual, "report.pdf")
			So(resp.DownloadURL, ShouldEqual, "http://storage.test/signed/uploads/u1/1-report.pdf")
		})

		Convey("文件不存在返回404", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/files/u1/missing.txt", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("其他用户的文件返回404", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/files/u2/report.pdf", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("存储查询出错返回500而非404", func() {
			store.findErr = errors.New("connection reset")
			defer func() { store.findErr = nil }()

			req := httptest.NewRequest(http.MethodGet, "/api/files/u1/report.pdf", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}
