package config

import (
	"time"

	"github.com/zx06/sshrun/internal/ssh"
)

const (
	DefaultHost = "213.165.58.70"
	DefaultUser = "root"
)

// 环境变量名。SSH_PASSWORD* 由 secret 包读取。
const (
	EnvHost          = "SSH_HOST"
	EnvUser          = "SSH_USER"
	EnvPort          = "SSH_PORT"
	EnvHostKeyPolicy = "SSH_HOST_KEY_POLICY"
	EnvProfile       = "SSHRUN_PROFILE"
	EnvFormat        = "SSHRUN_FORMAT"
)

// File 表示 sshrun.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config > 内置默认值。
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

type Profile struct {
	Format string `yaml:"format"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`

	KnownHostsFile string `yaml:"known_hosts_file"`
	HostKeyPolicy  string `yaml:"host_key_policy"` // strict | tofu

	// Go duration 字符串，例如 "10s"、"5m"
	ConnectTimeout string `yaml:"connect_timeout"`
	CommandTimeout string `yaml:"command_timeout"`

	// PasswordKeyring 为 keyring account 名；作为最后的密码来源
	PasswordKeyring string `yaml:"password_keyring"`
}

// Settings 是可由 CLI 覆盖的值；零值表示未设置。
type Settings struct {
	Format         string
	Host           string
	Port           int
	User           string
	KnownHostsFile string
	HostKeyPolicy  string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

type Resolved struct {
	ConfigPath  string
	ProfileName string

	Format         string
	Host           string
	Port           int
	User           string
	KnownHostsFile string
	HostKeyPolicy  ssh.HostKeyPolicy
	ConnectTimeout time.Duration
	CommandTimeout time.Duration

	PasswordKeyring string
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIProfile    string
	CLIProfileSet bool
	CLI           Settings

	// Getenv 读取环境变量（nil 则用 os.Getenv；测试注入）。
	Getenv func(string) string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
