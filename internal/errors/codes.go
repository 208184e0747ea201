package errors

// Code 是稳定错误码（字符串），供脚本与 agent 判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound Code = "SSHRUN_CFG_NOT_FOUND"
	CodeCfgInvalid  Code = "SSHRUN_CFG_INVALID"

	// Credential
	CodeSecretNotFound   Code = "SSHRUN_SECRET_NOT_FOUND"
	CodeSecretUnreadable Code = "SSHRUN_SECRET_UNREADABLE"

	// SSH
	CodeSSHDialFailed      Code = "SSHRUN_SSH_DIAL_FAILED"
	CodeSSHConnectTimeout  Code = "SSHRUN_SSH_CONNECT_TIMEOUT"
	CodeSSHAuthFailed      Code = "SSHRUN_SSH_AUTH_FAILED"
	CodeSSHHostKeyMismatch Code = "SSHRUN_SSH_HOSTKEY_MISMATCH"
	CodeSSHHostKeyUnknown  Code = "SSHRUN_SSH_HOSTKEY_UNKNOWN"

	// Remote execution
	CodeExecTimeout Code = "SSHRUN_EXEC_TIMEOUT"
	CodeExecFailed  Code = "SSHRUN_EXEC_FAILED"

	// Internal
	CodeInternal Code = "SSHRUN_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeSecretUnreadable,
		CodeSSHDialFailed,
		CodeSSHConnectTimeout,
		CodeSSHAuthFailed,
		CodeSSHHostKeyMismatch,
		CodeSSHHostKeyUnknown,
		CodeExecTimeout,
		CodeExecFailed,
		CodeInternal,
	}
}
