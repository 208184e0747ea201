package log

import (
	"io"
	"log/slog"
)

// New 返回写入到 w 的 slog.Logger。
// 注意：stdout/stderr 承载远端输出，日志只应在 --verbose 时出现在 stderr（由调用方传入）。
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// LevelFor 默认只输出 WARN 及以上，verbose 时输出 DEBUG。
func LevelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
