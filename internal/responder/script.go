package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ScriptResponder 外部脚本后端
// 启动外部进程，把载荷JSON写入其标准输入，收集标准输出作为应答。
// 附件URL列表序列化后作为额外参数传入，脚本自行从对象存储加载文件。
type ScriptResponder struct {
	command string        // 解释器（如 python3）
	path    string        // 脚本路径
	timeout time.Duration // 单次调用上限
}

// NewScriptResponder 创建外部脚本后端
func NewScriptResponder(command, path string, timeout time.Duration) *ScriptResponder {
	if command == "" {
		command = "python3"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ScriptResponder{
		command: command,
		path:    path,
		timeout: timeout,
	}
}

// Generate 一次应答生成调用
// 退出码为0时解析标准输出：JSON对象取其 answer 字段，否则使用裁剪后的原始文本。
// 非0退出返回 InvokeError；超过时限进程被强制终止并返回 ErrTimeout。
func (r *ScriptResponder) Generate(ctx context.Context, payload *Payload, attachmentURLs []string) (string, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal responder payload: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{r.path}
	if len(attachmentURLs) > 0 {
		urls, err := json.Marshal(attachmentURLs)
		if err != nil {
			return "", fmt.Errorf("failed to marshal attachment urls: %w", err)
		}
		args = append(args, string(urls))
	}

	// CommandContext 在超时后杀掉进程，Run 等待进程被回收后才返回
	cmd := exec.CommandContext(runCtx, r.command, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			log.Warn().
				Str("script", r.path).
				Dur("timeout", r.timeout).
				Msg("responder invocation timed out, process killed")
			return "", ErrTimeout
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &InvokeError{
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	log.Debug().
		Str("script", r.path).
		Dur("elapsed", time.Since(start)).
		Int("output_bytes", stdout.Len()).
		Msg("responder invocation completed")

	return parseScriptOutput(stdout.Bytes()), nil
}

// parseScriptOutput 解析脚本输出
// 优先按JSON对象解析并取 answer 字段；解析失败时退回裁剪后的原始文本。
func parseScriptOutput(out []byte) string {
	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(out), &result); err == nil && result.Answer != "" {
		return result.Answer
	}
	return strings.TrimSpace(string(out))
}
