package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/sshrun/internal/errors"
)

// Writer 持有本地 stdout/stderr。raw 格式下远端 stdout 只写 Out、远端 stderr 只写 Err。
type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

// WriteResult 输出远端命令结果。
func (w Writer) WriteResult(format Format, r RunResult) error {
	if format == FormatRaw {
		if r.Stdout != "" {
			if _, err := io.WriteString(w.Out, r.Stdout); err != nil {
				return err
			}
		}
		if r.Stderr != "" {
			if _, err := io.WriteString(w.Err, r.Stderr); err != nil {
				return err
			}
		}
		return nil
	}
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: r})
}

// WriteOK 输出任意成功数据（spec、version 等）；raw 下按 JSON 输出。
func (w Writer) WriteOK(format Format, data any) error {
	if format == FormatRaw {
		format = FormatJSON
	}
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data})
}

// WriteError 输出 sshrun 自身的错误。raw 下写一行诊断到 Err，其余格式写信封到 Out。
func (w Writer) WriteError(format Format, xe *errors.XError) error {
	if format == FormatRaw || !IsValid(format) {
		msg := xe.Message
		if cause := xe.Unwrap(); cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, cause)
		}
		_, err := fmt.Fprintf(w.Err, "sshrun: %s [%s]\n", msg, xe.Code)
		return err
	}
	errObj := &ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details}
	return w.write(format, Envelope{OK: false, SchemaVersion: SchemaVersion, Error: errObj})
}

// WriteLines 逐行写到 Err（用于密码提示等人类可读信息）。
func (w Writer) WriteLines(lines []string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(w.Err, l)
	}
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ok\t%v\n", env.OK)
	_, _ = fmt.Fprintf(tw, "schema_version\t%d\n", env.SchemaVersion)
	if env.Error != nil {
		_, _ = fmt.Fprintf(tw, "error.code\t%s\n", env.Error.Code)
		_, _ = fmt.Fprintf(tw, "error.message\t%s\n", env.Error.Message)
		return tw.Flush()
	}
	switch d := env.Data.(type) {
	case RunResult:
		_, _ = fmt.Fprintf(tw, "host\t%s\n", d.Host)
		_, _ = fmt.Fprintf(tw, "port\t%d\n", d.Port)
		_, _ = fmt.Fprintf(tw, "user\t%s\n", d.User)
		_, _ = fmt.Fprintf(tw, "exit_code\t%d\n", d.ExitCode)
		if err := tw.Flush(); err != nil {
			return err
		}
		// 多行输出不适合放进表格单元格
		_, _ = fmt.Fprintf(out, "--- stdout ---\n%s", d.Stdout)
		_, _ = fmt.Fprintf(out, "--- stderr ---\n%s", d.Stderr)
		return nil
	case nil:
	default:
		b, _ := json.Marshal(d)
		_, _ = fmt.Fprintf(tw, "data\t%s\n", b)
	}
	return tw.Flush()
}
