package errors

// ExitCode 是 sshrun 自身失败时的进程退出码（稳定契约）。
// 远端命令成功执行时，进程退出码就是远端命令的退出码，不经过这里。
// 连接类错误使用 250+ 区间，尽量避开常见命令自身的退出码。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 1: 无法得到密码
	ExitCredential ExitCode = 1

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	ExitDial           ExitCode = 250
	ExitConnectTimeout ExitCode = 251
	ExitAuth           ExitCode = 252
	ExitHostKey        ExitCode = 253
	ExitExecTimeout    ExitCode = 254

	// 255: 会话异常或内部错误（与 OpenSSH 客户端一致）
	ExitInternal ExitCode = 255
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeSecretNotFound, CodeSecretUnreadable:
		return ExitCredential
	case CodeCfgNotFound, CodeCfgInvalid:
		return ExitConfig
	case CodeSSHDialFailed:
		return ExitDial
	case CodeSSHConnectTimeout:
		return ExitConnectTimeout
	case CodeSSHAuthFailed:
		return ExitAuth
	case CodeSSHHostKeyMismatch, CodeSSHHostKeyUnknown:
		return ExitHostKey
	case CodeExecTimeout:
		return ExitExecTimeout
	case CodeExecFailed, CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
