package output

import "github.com/zx06/sshrun/internal/errors"

const SchemaVersion = 1

type ErrorObject struct {
	Code    errors.Code    `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

type Envelope struct {
	OK            bool         `json:"ok" yaml:"ok"`
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	Error         *ErrorObject `json:"error,omitempty" yaml:"error,omitempty"`
	Data          any          `json:"data,omitempty" yaml:"data,omitempty"`
}

// RunResult 是结构化格式下一次远端执行的输出；Stdout/Stderr 已解码为合法 UTF-8。
type RunResult struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	ExitCode int    `json:"exit_code" yaml:"exit_code"`
	Stdout   string `json:"stdout" yaml:"stdout"`
	Stderr   string `json:"stderr" yaml:"stderr"`
}
