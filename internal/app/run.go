package app

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/zx06/sshrun/internal/config"
	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/secret"
	"github.com/zx06/sshrun/internal/ssh"
)

// RunOptions 描述一次远端执行所需的全部输入；不读取任何全局状态。
type RunOptions struct {
	Target  config.Resolved
	Command string

	// Getenv/HomeDir 传给密码解析；nil/空值时使用进程环境。
	Getenv  func(string) string
	HomeDir string
	Keyring secret.KeyringAPI

	Dialer ssh.Dialer
	Logger *slog.Logger
}

// Run 执行完整流程：解析密码 → 连接 → 执行 → 关闭。
// 密码解析失败时不会发起任何网络连接。连接在所有返回路径上关闭。
func Run(ctx context.Context, opts RunOptions) (ssh.Result, *errors.XError) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cred, xe := secret.Resolve(secret.Options{
		Getenv:         opts.Getenv,
		HomeDir:        opts.HomeDir,
		KeyringAccount: opts.Target.PasswordKeyring,
		Keyring:        opts.Keyring,
	})
	if xe != nil {
		return ssh.Result{}, xe
	}
	logger.Debug("resolved ssh password", "source", string(cred.Source))

	if strings.TrimSpace(opts.Command) == "" {
		return ssh.Result{}, errors.New(errors.CodeCfgInvalid, "command is empty", nil)
	}

	client, xe := ssh.Connect(ctx, ssh.Options{
		Host:           opts.Target.Host,
		Port:           opts.Target.Port,
		User:           opts.Target.User,
		Password:       cred.Password,
		KnownHostsFile: opts.Target.KnownHostsFile,
		HostKeyPolicy:  opts.Target.HostKeyPolicy,
		ConnectTimeout: opts.Target.ConnectTimeout,
		Dialer:         opts.Dialer,
		Logger:         logger,
	})
	if xe != nil {
		return ssh.Result{}, xe
	}
	defer func() { _ = client.Close() }()

	return client.Run(ctx, opts.Command, opts.Target.CommandTimeout)
}
