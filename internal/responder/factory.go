package responder

import (
	"context"
	"fmt"

	"docchat/internal/config"
)

// New 根据配置创建应答后端
func New(ctx context.Context, cfg *config.ResponderConfig) (Responder, error) {
	switch cfg.Type {
	case "script", "":
		return NewScriptResponder(cfg.Script.Command, cfg.Script.Path, cfg.Timeout), nil
	case "model":
		return NewModelResponder(ctx, &cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported responder type: %s", cfg.Type)
	}
}
