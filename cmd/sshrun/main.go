package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/zx06/sshrun/internal/app"
	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/output"
	"github.com/zx06/sshrun/internal/secret"
	"github.com/zx06/sshrun/internal/ssh"
)

// environ 是进程边界上的全部输入输出；测试注入替身。
type environ struct {
	Getenv  func(string) string
	HomeDir string // 为空则自动探测
	WorkDir string // 为空则使用当前目录

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Keyring secret.KeyringAPI // nil 则使用系统 keyring
	Dialer  ssh.Dialer        // nil 则使用 net.Dialer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exit := run(ctx, os.Args[1:], environ{
		Getenv: os.Getenv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	stop()
	os.Exit(exit)
}

// run 执行一次 CLI 调用并返回进程退出码。
func run(ctx context.Context, args []string, env environ) int {
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	a := app.New(version, commit, date)
	w := output.New(env.Stdout, env.Stderr)
	st := &state{}

	root := NewRootCommand(&a, &w, env, st)
	root.SetArgs(args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		xe := normalizeErr(err)
		format := resolveFormatForError(st.format)
		if isCredentialErr(xe) {
			// raw 下只输出提示，与历史脚本保持一致
			if format != output.FormatRaw {
				_ = w.WriteError(format, xe)
			}
			w.WriteLines(secret.HintFor(xe))
		} else {
			_ = w.WriteError(format, xe)
		}
		return int(errors.ExitCodeFor(xe.Code))
	}
	return st.exitCode
}
