package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"docchat/internal/config"
	"docchat/internal/responder/component"
)

const modelSystemPrompt = `You are an assistant that answers questions about the user's uploaded documents.
If attachment links are provided, base your answer on their contents.
If you do not have enough information, say so.`

// ModelResponder 进程内模型后端
// 通过 Eino ChatModel 直接生成应答，与外部脚本后端实现同一接口。
type ModelResponder struct {
	chatModel model.ChatModel
	timeout   time.Duration
}

// NewModelResponder 创建进程内模型后端
func NewModelResponder(ctx context.Context, cfg *config.ModelConfig, timeout time.Duration) (*ModelResponder, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ModelResponder{
		chatModel: chatModel,
		timeout:   timeout,
	}, nil
}

// Generate 一次应答生成调用
func (r *ModelResponder) Generate(ctx context.Context, payload *Payload, attachmentURLs []string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content := payload.Message
	if len(attachmentURLs) > 0 {
		content = fmt.Sprintf("%s\n\nAttachments:\n%s", content, strings.Join(attachmentURLs, "\n"))
	}

	messages := []*schema.Message{
		schema.SystemMessage(modelSystemPrompt),
		schema.UserMessage(content),
	}

	result, err := r.chatModel.Generate(runCtx, messages)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("model generation failed: %w", err)
	}

	return strings.TrimSpace(result.Content), nil
}
