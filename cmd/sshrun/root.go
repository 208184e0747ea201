package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/sshrun/internal/app"
	"github.com/zx06/sshrun/internal/config"
	"github.com/zx06/sshrun/internal/errors"
	sshlog "github.com/zx06/sshrun/internal/log"
	"github.com/zx06/sshrun/internal/output"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// state 在 cobra 回调与 run 之间传递结果。
type state struct {
	format   string
	exitCode int
}

// flagValues holds the raw flag values before merging with ENV/config
type flagValues struct {
	config  string
	profile string
	verbose bool
	spec    bool
	version bool
	s       config.Settings
}

// NewRootCommand creates the root command. The root itself runs the remote
// command so that remote words such as "version" are never taken as subcommands.
func NewRootCommand(a *app.App, w *output.Writer, env environ, st *state) *cobra.Command {
	fv := &flagValues{}
	root := &cobra.Command{
		Use:           "sshrun [flags] [--] command...",
		Short:         "Run one command on a remote host over SSH",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, a, w, env, st, fv)
		},
	}
	// 第一个非 flag 参数之后的内容都属于远端命令
	root.Flags().SetInterspersed(false)

	f := root.Flags()
	f.StringVar(&fv.config, "config", "", "Config file path (YAML); default: ./sshrun.yaml or $HOME/.config/sshrun/sshrun.yaml")
	f.StringVarP(&fv.profile, "profile", "p", "", "Profile name (config: profiles.<name>)")
	f.StringVarP(&fv.s.Format, "format", "f", "", "Output format: raw|json|yaml|table (default raw)")
	f.StringVar(&fv.s.Host, "host", "", "SSH host (default "+config.DefaultHost+")")
	f.IntVar(&fv.s.Port, "port", 0, "SSH port (default 22)")
	f.StringVar(&fv.s.User, "user", "", "SSH user (default "+config.DefaultUser+")")
	f.StringVar(&fv.s.HostKeyPolicy, "host-key-policy", "", "Unknown host handling: strict|tofu (default tofu)")
	f.StringVar(&fv.s.KnownHostsFile, "known-hosts", "", "known_hosts file (default ~/.ssh/known_hosts)")
	f.DurationVar(&fv.s.ConnectTimeout, "connect-timeout", 0, "Timeout for TCP connect and SSH handshake (default 10s)")
	f.DurationVar(&fv.s.CommandTimeout, "command-timeout", 0, "Timeout for the remote command (default 5m)")
	f.BoolVarP(&fv.verbose, "verbose", "v", false, "Debug logging to stderr")
	f.BoolVar(&fv.spec, "spec", false, "Print the machine-readable CLI description and exit")
	f.BoolVar(&fv.version, "version", false, "Print version information and exit")

	return root
}

func runRoot(cmd *cobra.Command, args []string, a *app.App, w *output.Writer, env environ, st *state, fv *flagValues) error {
	flags := cmd.Flags()

	st.format = fv.s.Format
	if !flags.Changed("format") {
		st.format = env.Getenv(config.EnvFormat)
	}

	if fv.spec || fv.version {
		format, err := parseOutputFormat(st.format)
		if err != nil {
			return err
		}
		if fv.spec {
			return w.WriteOK(format, a.BuildSpec())
		}
		return w.WriteOK(format, a.VersionInfo())
	}

	if flags.Changed("config") && fv.config == "" {
		return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
	}
	if xe := validateChanged(flags.Changed, fv.s); xe != nil {
		return xe
	}

	// CLI > ENV > Config
	r, xe := config.Resolve(config.Options{
		ConfigPath:    fv.config,
		CLIProfile:    fv.profile,
		CLIProfileSet: flags.Changed("profile"),
		CLI:           fv.s,
		Getenv:        env.Getenv,
		HomeDir:       env.HomeDir,
		WorkDir:       env.WorkDir,
	})
	if xe != nil {
		return xe
	}
	st.format = r.Format
	format, err := parseOutputFormat(r.Format)
	if err != nil {
		return err
	}

	command, err := readCommand(cmd, args)
	if err != nil {
		return err
	}

	logger := sshlog.New(env.Stderr, sshlog.LevelFor(fv.verbose))
	logger.Debug("resolved target", "host", r.Host, "port", r.Port, "user", r.User, "profile", r.ProfileName, "config", r.ConfigPath)

	res, xe := app.Run(cmd.Context(), app.RunOptions{
		Target:  r,
		Command: command,
		Getenv:  env.Getenv,
		HomeDir: env.HomeDir,
		Keyring: env.Keyring,
		Dialer:  env.Dialer,
		Logger:  logger,
	})
	if xe != nil {
		return xe
	}

	err = w.WriteResult(format, output.RunResult{
		Host:     r.Host,
		Port:     r.Port,
		User:     r.User,
		ExitCode: res.ExitCode,
		Stdout:   output.Decode(res.Stdout),
		Stderr:   output.Decode(res.Stderr),
	})
	if err != nil {
		return errors.AsOrWrap(err)
	}
	st.exitCode = res.ExitCode
	return nil
}

// readCommand 把参数用空格拼接；没有参数时读取整个 stdin。
func readCommand(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(errors.CodeCfgInvalid, "failed to read command from stdin", nil, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New(errors.CodeCfgInvalid, "no command given", nil)
	}
	return string(b), nil
}

// validateChanged 拒绝显式传入的零值（零值在 Settings 中表示未设置）。
func validateChanged(changed func(string) bool, s config.Settings) *errors.XError {
	if changed("port") && (s.Port <= 0 || s.Port > 65535) {
		return errors.New(errors.CodeCfgInvalid, "port out of range", map[string]any{"port": s.Port})
	}
	if changed("connect-timeout") && s.ConnectTimeout <= 0 {
		return errors.New(errors.CodeCfgInvalid, "connect-timeout must be positive", map[string]any{"value": s.ConnectTimeout.String()})
	}
	if changed("command-timeout") && s.CommandTimeout <= 0 {
		return errors.New(errors.CodeCfgInvalid, "command-timeout must be positive", map[string]any{"value": s.CommandTimeout.String()})
	}
	for _, name := range []string{"host", "user", "host-key-policy", "known-hosts"} {
		if changed(name) && flagEmpty(name, s) {
			return errors.New(errors.CodeCfgInvalid, "--"+name+" is empty", nil)
		}
	}
	return nil
}

func flagEmpty(name string, s config.Settings) bool {
	switch name {
	case "host":
		return s.Host == ""
	case "user":
		return s.User == ""
	case "host-key-policy":
		return s.HostKeyPolicy == ""
	case "known-hosts":
		return s.KnownHostsFile == ""
	}
	return false
}
