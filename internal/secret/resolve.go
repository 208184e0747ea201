package secret

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zx06/sshrun/internal/errors"
)

const (
	EnvPasswordFile = "SSH_PASSWORD_FILE"
	EnvPassword     = "SSH_PASSWORD"
)

// DefaultPasswordFile 相对于用户 home 目录。
var DefaultPasswordFile = filepath.Join(".ssh", "md-succ-password")

// Source 标识密码来源，可以写日志（密码本身不可以）。
type Source string

const (
	SourcePasswordFile Source = "password_file"
	SourceEnv          Source = "env"
	SourceDefaultFile  Source = "default_file"
	SourceKeyring      Source = "keyring"
)

// Options 控制 secret 解析行为。环境变量与 home 目录均由调用方注入。
type Options struct {
	Getenv  func(string) string // nil 则用 os.Getenv
	HomeDir string              // 为空则自动探测

	// KeyringAccount 非空时，在三个常规来源都没有结果后读取 keyring。
	KeyringAccount string
	Keyring        KeyringAPI // 可注入的 keyring 实现（nil 则用默认）
}

// Resolved 是解析结果。
type Resolved struct {
	Password string
	Source   Source
	Path     string // 文件来源时的路径
}

// Hint 是找不到密码时输出到 stderr 的提示。
var Hint = []string{
	"SSH password required. Set via:",
	`  1. echo "password" > ~/.ssh/md-succ-password`,
	"  2. SSH_PASSWORD_FILE=/path/to/file",
	"  3. SSH_PASSWORD env var (not recommended)",
}

// Resolve 按固定顺序解析密码，第一个命中的来源生效：
//  1. SSH_PASSWORD_FILE 指向的文件（读取失败直接报错，不再尝试后续来源）
//  2. SSH_PASSWORD（历史遗留，ps 可见）
//  3. ~/.ssh/md-succ-password
//  4. keyring（仅在配置了 KeyringAccount 时）
//
// 空密码视为未找到。
func Resolve(opts Options) (Resolved, *errors.XError) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if p := getenv(EnvPasswordFile); p != "" {
		pw, err := readPasswordFile(p)
		if err != nil {
			return Resolved{}, errors.Wrap(errors.CodeSecretUnreadable,
				fmt.Sprintf("cannot read %s (%s)", EnvPasswordFile, p),
				map[string]any{"path": p}, err)
		}
		return nonEmpty(Resolved{Password: pw, Source: SourcePasswordFile, Path: p})
	}

	if pw := getenv(EnvPassword); pw != "" {
		return Resolved{Password: pw, Source: SourceEnv}, nil
	}

	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		p := filepath.Join(home, DefaultPasswordFile)
		if _, err := os.Stat(p); err == nil {
			pw, err := readPasswordFile(p)
			if err != nil {
				return Resolved{}, errors.Wrap(errors.CodeSecretUnreadable,
					fmt.Sprintf("cannot read password file (%s)", p),
					map[string]any{"path": p}, err)
			}
			return nonEmpty(Resolved{Password: pw, Source: SourceDefaultFile, Path: p})
		}
	}

	if opts.KeyringAccount != "" {
		kr := opts.Keyring
		if kr == nil {
			kr = DefaultKeyring()
		}
		pw, err := kr.Get(ServiceName, opts.KeyringAccount)
		if err != nil {
			return Resolved{}, errors.Wrap(errors.CodeSecretNotFound, "failed to read password from keyring",
				map[string]any{"account": opts.KeyringAccount}, err)
		}
		return nonEmpty(Resolved{Password: pw, Source: SourceKeyring})
	}

	return Resolved{}, errors.New(errors.CodeSecretNotFound, "ssh password required", nil)
}

// IsNotFound 判断 err 是否为“没有任何来源提供密码”。
func IsNotFound(err error) bool {
	var xe *errors.XError
	return stderrors.As(err, &xe) && xe.Code == errors.CodeSecretNotFound
}

func readPasswordFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func nonEmpty(r Resolved) (Resolved, *errors.XError) {
	if r.Password == "" {
		details := map[string]any{"source": string(r.Source)}
		if r.Path != "" {
			details["path"] = r.Path
		}
		return Resolved{}, errors.New(errors.CodeSecretNotFound, "ssh password is empty", details)
	}
	return r, nil
}

// HintFor 返回密码解析失败时应输出到 stderr 的行。
// 文件不可读时先输出一行原因，再输出 Hint。
func HintFor(xe *errors.XError) []string {
	if xe == nil {
		return nil
	}
	lines := make([]string, 0, len(Hint)+1)
	if xe.Code == errors.CodeSecretUnreadable {
		msg := xe.Message
		if msg != "" {
			msg = strings.ToUpper(msg[:1]) + msg[1:]
		}
		if cause := xe.Unwrap(); cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, cause)
		}
		lines = append(lines, msg)
	}
	return append(lines, Hint...)
}
