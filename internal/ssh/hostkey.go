package ssh

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/zx06/sshrun/internal/errors"
)

// hostKeyVerifier 校验服务器 host key：已记录的严格匹配，未知的按 policy 处理。
// 握手失败时 ssh 包只返回字符串化的错误，因此把结构化错误留在 err 中供 Connect 取用。
type hostKeyVerifier struct {
	path   string
	policy HostKeyPolicy
	known  ssh.HostKeyCallback // known_hosts 不存在时为 nil
	logger *slog.Logger
	err    *errors.XError
}

func newHostKeyVerifier(path string, policy HostKeyPolicy, logger *slog.Logger) (*hostKeyVerifier, *errors.XError) {
	if path == "" {
		path = DefaultKnownHostsPath()
	}
	path = expandPath(path)
	v := &hostKeyVerifier{path: path, policy: policy, logger: logger}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		cb, err := knownhosts.New(path)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to parse known_hosts", map[string]any{"path": path}, err)
		}
		v.known = cb
	case os.IsNotExist(err):
		logger.Debug("known_hosts not found, every host is unknown", "path", path)
	default:
		return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read known_hosts", map[string]any{"path": path}, err)
	}
	return v, nil
}

func (v *hostKeyVerifier) check(hostname string, remote net.Addr, key ssh.PublicKey) error {
	details := map[string]any{
		"host":        hostname,
		"known_hosts": v.path,
		"fingerprint": ssh.FingerprintSHA256(key),
	}

	if v.known != nil {
		err := v.known(hostname, remote, key)
		if err == nil {
			return nil
		}
		var ke *knownhosts.KeyError
		if !stderrors.As(err, &ke) || len(ke.Want) > 0 {
			// 已记录但不匹配，或被 @revoked
			v.err = errors.Wrap(errors.CodeSSHHostKeyMismatch, "remote host key does not match known_hosts", details, err)
			return v.err
		}
	}

	if v.policy != PolicyTOFU {
		v.err = errors.New(errors.CodeSSHHostKeyUnknown, "remote host is not in known_hosts and host key policy is strict", details)
		return v.err
	}
	if err := v.record(hostname, key); err != nil {
		v.err = errors.Wrap(errors.CodeInternal, "failed to record host key", details, err)
		return v.err
	}
	v.logger.Info("recorded new host key", "host", hostname, "fingerprint", details["fingerprint"], "known_hosts", v.path)
	return nil
}

// record 追加一行到 known_hosts，必要时创建文件（0600）与目录（0700）。
func (v *hostKeyVerifier) record(hostname string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(v.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	prefix := ""
	if st, err := f.Stat(); err == nil && st.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, st.Size()-1); err != nil && err != io.EOF {
			return err
		}
		if last[0] != '\n' {
			prefix = "\n"
		}
	}
	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	if _, err := fmt.Fprintf(f, "%s%s\n", prefix, line); err != nil {
		return err
	}
	return f.Sync()
}
