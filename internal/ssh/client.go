package ssh

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/zx06/sshrun/internal/errors"
)

// Client 包装一条已认证的 ssh.Client 连接。
type Client struct {
	client *ssh.Client
	logger *slog.Logger
}

// Connect 建立 SSH 连接：TCP 建连与握手共享 ConnectTimeout。
func Connect(ctx context.Context, opts Options) (*Client, *errors.XError) {
	if opts.Host == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "ssh host is required", nil)
	}
	if opts.User == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "ssh user is required", nil)
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.HostKeyPolicy == "" {
		opts.HostKeyPolicy = PolicyTOFU
	}
	if opts.Dialer == nil {
		opts.Dialer = &net.Dialer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	verifier, xe := newHostKeyVerifier(opts.KnownHostsFile, opts.HostKeyPolicy, logger)
	if xe != nil {
		return nil, xe
	}

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            buildAuthMethods(opts.Password),
		HostKeyCallback: verifier.check,
		Timeout:         opts.ConnectTimeout,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	details := map[string]any{"host": opts.Host, "port": opts.Port, "user": opts.User}
	logger.Debug("connecting", "addr", addr, "user", opts.User, "host_key_policy", string(opts.HostKeyPolicy))

	deadline := time.Now().Add(opts.ConnectTimeout)
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	conn, err := opts.Dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.CodeSSHConnectTimeout, "timed out connecting to ssh server", details, err)
		}
		return nil, errors.Wrap(errors.CodeSSHDialFailed, "failed to connect to ssh server", details, err)
	}

	_ = conn.SetDeadline(deadline)
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		switch {
		case verifier.err != nil:
			return nil, verifier.err
		case isTimeout(err):
			return nil, errors.Wrap(errors.CodeSSHConnectTimeout, "timed out during ssh handshake", details, err)
		case strings.Contains(err.Error(), "unable to authenticate"):
			return nil, errors.Wrap(errors.CodeSSHAuthFailed, "ssh authentication failed", details, err)
		default:
			return nil, errors.Wrap(errors.CodeSSHDialFailed, "ssh handshake failed", details, err)
		}
	}
	_ = conn.SetDeadline(time.Time{})

	logger.Debug("connected", "addr", addr, "server_version", string(sshConn.ServerVersion()))
	return &Client{client: ssh.NewClient(sshConn, chans, reqs), logger: logger}, nil
}

// Close 关闭 SSH 连接。
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// buildAuthMethods 使用密码认证；服务器只开放 keyboard-interactive 时用同一密码回答所有问题。
func buildAuthMethods(password string) []ssh.AuthMethod {
	return []ssh.AuthMethod{
		ssh.Password(password),
		ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i := range answers {
				answers[i] = password
			}
			return answers, nil
		}),
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return true
	}
	// 握手错误在部分 x/crypto 版本中被字符串化
	return strings.Contains(err.Error(), "i/o timeout")
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}
