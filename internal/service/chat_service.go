package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"docchat/internal/model/chat"
	"docchat/internal/pkg/cache"
	"docchat/internal/pkg/storage"
	"docchat/internal/responder"
)

var (
	ErrUserIDRequired = errors.New("用户ID不能为空")
	ErrEmptyMessage   = errors.New("消息和附件不能同时为空")
	ErrChatNotFound   = errors.New("对话记录不存在")
	ErrFileNotFound   = errors.New("文件不存在")
)

// ChatStore 对话记录存取能力
// 由 repository.ChatRepo 实现
type ChatStore interface {
	Create(ctx context.Context, c *chat.Chat) error
	FindByID(ctx context.Context, chatID string) (*chat.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int64) ([]*chat.Chat, int64, error)
	FindByUserAndFilename(ctx context.Context, userID, filename string) (*chat.Chat, error)
	Delete(ctx context.Context, chatID string) (bool, error)
}

// ChatService 对话服务 - 业务逻辑层
// 职责: 编排附件上传、应答生成和记录持久化，实现一次完整的问答交换
type ChatService struct {
	store     ChatStore           // 数据访问层
	storage   storage.Storage     // 对象存储
	responder responder.Responder // 应答生成层
	cache     *cache.RedisCache   // 可选，缓存签名下载URL
}

// NewChatService 创建对话服务
// redisCache 可以为 nil，此时不做URL缓存
func NewChatService(store ChatStore, st storage.Storage, rsp responder.Responder, redisCache *cache.RedisCache) *ChatService {
	return &ChatService{
		store:     store,
		storage:   st,
		responder: rsp,
		cache:     redisCache,
	}
}

// FileUpload 一个待上传的附件
type FileUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// SubmitRequest 对话提交请求
type SubmitRequest struct {
	UserID  string
	Message string
	Files   []FileUpload
}

// Submit 处理一次对话提交
// 业务流程: 1. 校验 -> 2. 上传附件（尽力而为） -> 3. 调用应答层 -> 4. 持久化 -> 5. 返回完整记录
//
// 应答生成失败或超时的策略：直接向调用方返回错误，不落库。
// 持久化的记录因此总是携带真实生成的应答。
func (s *ChatService) Submit(ctx context.Context, req *SubmitRequest) (*chat.Chat, error) {
	if req.UserID == "" {
		return nil, ErrUserIDRequired
	}

	message := strings.TrimSpace(req.Message)
	if message == "" && len(req.Files) == 0 {
		return nil, ErrEmptyMessage
	}

	// 仅有附件时使用占位消息，保证记录的 message 非空
	if message == "" {
		message = fmt.Sprintf("Uploaded %d file(s)", len(req.Files))
	}

	logger := log.With().Str("user_id", req.UserID).Logger()

	// 1. 上传附件，单个失败只记录日志并跳过，不中断整个请求
	attachments := s.uploadAttachments(ctx, req.UserID, req.Files)
	if len(attachments) < len(req.Files) {
		logger.Warn().
			Int("submitted", len(req.Files)).
			Int("uploaded", len(attachments)).
			Msg("some attachments failed to upload, continuing without them")
	}

	urls := make([]string, 0, len(attachments))
	for _, att := range attachments {
		urls = append(urls, att.StorageURL)
	}

	// 2. 调用应答层
	payload := &responder.Payload{
		Message:        message,
		UserID:         req.UserID,
		HasAttachments: len(attachments) > 0,
	}

	answer, err := s.responder.Generate(ctx, payload, urls)
	if err != nil {
		logger.Error().Err(err).Msg("responder invocation failed")
		return nil, err
	}

	// 3. 持久化记录
	record := &chat.Chat{
		UserID:      req.UserID,
		Message:     message,
		Response:    answer,
		Attachments: attachments,
	}

	if err := s.store.Create(ctx, record); err != nil {
		logger.Error().Err(err).Msg("failed to save chat record")
		return nil, fmt.Errorf("failed to save chat record: %w", err)
	}

	logger.Info().
		Str("chat_id", record.ID).
		Int("attachments", len(attachments)).
		Msg("chat exchange completed")

	return record, nil
}

// uploadAttachments 并发上传附件
// 每个附件独立尝试，单个失败不影响其他附件；结果保持提交顺序。
func (s *ChatService) uploadAttachments(ctx context.Context, userID string, files []FileUpload) []chat.Attachment {
	if len(files) == 0 {
		return []chat.Attachment{}
	}

	results := make([]*chat.Attachment, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f FileUpload) {
			defer wg.Done()

			key := attachmentKey(userID, f.Filename)
			url, err := s.storage.Upload(ctx, key, f.Data, f.ContentType)
			if err != nil {
				log.Warn().
					Err(err).
					Str("user_id", userID).
					Str("filename", f.Filename).
					Msg("attachment upload failed, skipping")
				return
			}

			results[i] = &chat.Attachment{
				Filename:    f.Filename,
				StorageKey:  key,
				StorageURL:  url,
				ContentType: f.ContentType,
				UploadedAt:  time.Now(),
			}
		}(i, f)
	}
	wg.Wait()

	attachments := make([]chat.Attachment, 0, len(files))
	for _, att := range results {
		if att != nil {
			attachments = append(attachments, *att)
		}
	}
	return attachments
}

// attachmentKey 生成附件的存储路径
// 格式：uploads/{user_id}/{unix_millis}-{filename}
func attachmentKey(userID, filename string) string {
	return fmt.Sprintf("uploads/%s/%d-%s", userID, time.Now().UnixMilli(), filepath.Base(filename))
}

// HistoryResult 历史查询结果
type HistoryResult struct {
	Chats      []*chat.Chat
	Total      int64
	Page       int
	TotalPages int
}

// History 分页查询用户的对话历史（时间倒序）
// page 从1开始，默认1；limit 默认20。空结果是合法的，不视为错误。
func (s *ChatService) History(ctx context.Context, userID string, page, limit int) (*HistoryResult, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // 限制最大页面大小
	}

	offset := (page - 1) * limit

	chats, total, err := s.store.ListByUserID(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list chat history")
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}

	if chats == nil {
		chats = []*chat.Chat{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &HistoryResult{
		Chats:      chats,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Delete 删除一条对话记录
// 先尽力删除每个附件对象（单个失败只记录日志），再删除记录本身。
func (s *ChatService) Delete(ctx context.Context, chatID string) error {
	record, err := s.store.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrChatNotFound
		}
		log.Error().Err(err).Str("chat_id", chatID).Msg("failed to load chat record")
		return fmt.Errorf("failed to load chat record: %w", err)
	}

	for _, att := range record.Attachments {
		if err := s.storage.Delete(ctx, att.StorageKey); err != nil {
			log.Warn().
				Err(err).
				Str("chat_id", chatID).
				Str("storage_key", att.StorageKey).
				Msg("failed to delete attachment object, continuing")
		}
		if s.cache != nil {
			_ = s.cache.Delete(ctx, cache.DownloadURLCacheKey(att.StorageKey))
		}
	}

	deleted, err := s.store.Delete(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("failed to delete chat record")
		return fmt.Errorf("failed to delete chat record: %w", err)
	}
	if !deleted {
		return ErrChatNotFound
	}

	log.Info().Str("chat_id", chatID).Msg("chat record deleted")
	return nil
}

// DownloadURL 为用户的附件生成签名下载URL（有效期1小时）
// 文件名在用户内不保证唯一：取包含该文件名的最新记录中第一个匹配的附件。
func (s *ChatService) DownloadURL(ctx context.Context, userID, filename string) (string, error) {
	if userID == "" {
		return "", ErrUserIDRequired
	}

	record, err := s.store.FindByUserAndFilename(ctx, userID, filename)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrFileNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Str("filename", filename).Msg("failed to look up attachment")
		return "", fmt.Errorf("failed to look up attachment: %w", err)
	}

	var att *chat.Attachment
	for i := range record.Attachments {
		if record.Attachments[i].Filename == filename {
			att = &record.Attachments[i]
			break
		}
	}
	if att == nil {
		return "", ErrFileNotFound
	}

	cacheKey := cache.DownloadURLCacheKey(att.StorageKey)
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	url, err := s.storage.GetPresignedDownloadURL(ctx, att.StorageKey, time.Hour)
	if err != nil {
		log.Error().Err(err).Str("storage_key", att.StorageKey).Msg("failed to generate download URL")
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, url, cache.DownloadURLCacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache download URL")
			// 不影响主流程，只记录警告
		}
	}

	return url, nil
}
