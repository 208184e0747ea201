// Command sshrun-secret stores the SSH password used by sshrun in the OS keyring.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/output"
	"github.com/zx06/sshrun/internal/secret"
)

const defaultAccount = "default"

type environ struct {
	Keyring secret.KeyringAPI
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// ReadPassword 读取一行密码；nil 时终端下关闭回显读取，否则读 stdin 第一行。
	ReadPassword func(prompt string) (string, error)
}

func main() {
	os.Exit(run(os.Args[1:], environ{
		Keyring: secret.DefaultKeyring(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}))
}

func run(args []string, env environ) int {
	if env.ReadPassword == nil {
		env.ReadPassword = promptPassword(env)
	}
	w := output.New(env.Stdout, env.Stderr)

	root := newRootCommand(env)
	root.SetArgs(args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	if err := root.Execute(); err != nil {
		xe, ok := errors.As(err)
		if !ok {
			xe = errors.Wrap(errors.CodeCfgInvalid, err.Error(), nil, err)
		}
		_ = w.WriteError(output.FormatRaw, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}
	return int(errors.ExitOK)
}

func newRootCommand(env environ) *cobra.Command {
	root := &cobra.Command{
		Use:           "sshrun-secret",
		Short:         "Manage the sshrun password in the OS keyring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(&cobra.Command{
		Use:   "set [account]",
		Short: "Prompt for a password and store it (account defaults to " + defaultAccount + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := accountFrom(args)
			pw, err := env.ReadPassword("SSH password for " + account + ": ")
			if err != nil {
				return errors.Wrap(errors.CodeSecretUnreadable, "failed to read password", nil, err)
			}
			pw = strings.TrimSpace(pw)
			if pw == "" {
				return errors.New(errors.CodeSecretNotFound, "password is empty", map[string]any{"account": account})
			}
			if err := env.Keyring.Set(secret.ServiceName, account, pw); err != nil {
				return errors.Wrap(errors.CodeInternal, "failed to store password in keyring", map[string]any{"account": account}, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored password for account %q; set password_keyring: %s in your sshrun profile\n", account, account)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "delete [account]",
		Short: "Remove a stored password (account defaults to " + defaultAccount + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := accountFrom(args)
			if err := env.Keyring.Delete(secret.ServiceName, account); err != nil {
				return errors.Wrap(errors.CodeSecretNotFound, "failed to delete password from keyring", map[string]any{"account": account}, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted password for account %q\n", account)
			return nil
		},
	})
	return root
}

func accountFrom(args []string) string {
	if len(args) == 1 && args[0] != "" {
		return args[0]
	}
	return defaultAccount
}

// promptPassword 终端下关闭回显读取；管道输入时读取第一行。
func promptPassword(env environ) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if f, ok := env.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			_, _ = fmt.Fprint(env.Stderr, prompt)
			b, err := term.ReadPassword(int(f.Fd()))
			_, _ = fmt.Fprintln(env.Stderr)
			return string(b), err
		}
		line, err := bufio.NewReader(env.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return line, nil
	}
}
