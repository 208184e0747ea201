package ssh

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/zx06/sshrun/internal/errors"
)

// Result 是一次远端命令执行的结果。Stdout/Stderr 为原始字节，解码由 output 负责。
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Run 在新 session 中执行一条命令并等待结束。
// timeout > 0 时限制整体执行时长；超时或 ctx 取消会关闭底层连接以中断命令。
// 远端非零退出码不是错误，记录在 Result.ExitCode 中。
func (c *Client) Run(ctx context.Context, command string, timeout time.Duration) (Result, *errors.XError) {
	if command == "" {
		return Result{}, errors.New(errors.CodeCfgInvalid, "command is empty", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := c.client.NewSession()
	if err != nil {
		return Result{}, errors.Wrap(errors.CodeExecFailed, "failed to open ssh session", nil, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.logger.Debug("running command", "timeout", timeout.String())
	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-runCtx.Done():
		// 强制关闭底层连接以中断，并等待 Run 返回后再读取缓冲区
		_ = c.client.Close()
		<-done
		res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: -1}
		if ctx.Err() == nil {
			return res, errors.New(errors.CodeExecTimeout, "remote command timed out", map[string]any{"timeout": timeout.String()})
		}
		return res, errors.Wrap(errors.CodeExecFailed, "remote command interrupted", nil, ctx.Err())
	case err = <-done:
	}

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var ee *ssh.ExitError
		var missing *ssh.ExitMissingError
		switch {
		case stderrors.As(err, &ee):
			res.ExitCode = ee.ExitStatus()
		case stderrors.As(err, &missing):
			res.ExitCode = -1
			return res, errors.Wrap(errors.CodeExecFailed, "remote command exited without reporting a status", nil, err)
		default:
			res.ExitCode = -1
			return res, errors.Wrap(errors.CodeExecFailed, "remote command failed", nil, err)
		}
	}
	c.logger.Debug("command finished", "exit_code", res.ExitCode, "stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))
	return res, nil
}
