package main

import (
	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/output"
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	if s == "" {
		return output.FormatRaw, nil
	}
	f := output.Format(s)
	if !output.IsValid(f) {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s})
	}
	return f, nil
}

// resolveFormatForError falls back to raw so errors always reach stderr
func resolveFormatForError(s string) output.Format {
	f := output.Format(s)
	if !output.IsValid(f) {
		return output.FormatRaw
	}
	return f
}

func isCredentialErr(xe *errors.XError) bool {
	return xe.Code == errors.CodeSecretNotFound || xe.Code == errors.CodeSecretUnreadable
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	if xe, ok := errors.As(err); ok {
		return xe
	}
	// cobra 的参数解析错误归为配置错误
	return errors.Wrap(errors.CodeCfgInvalid, err.Error(), nil, err)
}
