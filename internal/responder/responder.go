package responder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout 单次应答生成的默认上限
const DefaultTimeout = 30 * time.Second

// ErrTimeout 应答生成超时，进程已被强制终止
var ErrTimeout = errors.New("responder timed out")

// InvokeError 应答生成失败
// 携带进程的退出码和标准错误输出
type InvokeError struct {
	ExitCode int
	Stderr   string
}

func (e *InvokeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("responder exited with code %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("responder exited with code %d", e.ExitCode)
}

// Payload 提交给应答后端的载荷
type Payload struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	HasAttachments bool   `json:"hasAttachments"`
}

// Responder 应答生成能力接口
// 对话管线只依赖这一接口：提交载荷，在限定时间内取回文本结果。
// 后端可以是外部进程、进程内模型或远程调用，相互可替换。
type Responder interface {
	Generate(ctx context.Context, payload *Payload, attachmentURLs []string) (string, error)
}
