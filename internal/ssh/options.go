package ssh

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/zx06/sshrun/internal/errors"
)

const (
	DefaultPort           = 22
	DefaultConnectTimeout = 10 * time.Second
	DefaultCommandTimeout = 300 * time.Second
)

// HostKeyPolicy 决定 known_hosts 中没有记录的主机如何处理。
// 已记录主机始终严格校验。
type HostKeyPolicy string

const (
	// PolicyStrict 拒绝未知主机。
	PolicyStrict HostKeyPolicy = "strict"
	// PolicyTOFU 首次连接时接受并写入 known_hosts（trust-on-first-use）。
	PolicyTOFU HostKeyPolicy = "tofu"
)

func ParseHostKeyPolicy(s string) (HostKeyPolicy, *errors.XError) {
	switch p := HostKeyPolicy(s); p {
	case PolicyStrict, PolicyTOFU:
		return p, nil
	case "trust-on-first-use":
		return PolicyTOFU, nil
	default:
		return "", errors.New(errors.CodeCfgInvalid, "invalid host key policy (strict|tofu)", map[string]any{"policy": s})
	}
}

// Dialer 建立到 SSH 服务器的 TCP 连接；测试可注入计数实现。
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Options 包含 SSH 连接所需参数。
type Options struct {
	Host     string
	Port     int
	User     string
	Password string

	KnownHostsFile string        // 默认 ~/.ssh/known_hosts
	HostKeyPolicy  HostKeyPolicy // 默认 tofu

	// ConnectTimeout 同时约束 TCP 建连与 SSH 握手。
	ConnectTimeout time.Duration

	Dialer Dialer       // nil 则使用 net.Dialer
	Logger *slog.Logger // nil 则丢弃
}

func DefaultKnownHostsPath() string {
	return "~/.ssh/known_hosts"
}
