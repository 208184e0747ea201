package app

import (
	"github.com/zx06/sshrun/internal/config"
	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/output"
	"github.com/zx06/sshrun/internal/secret"
	"github.com/zx06/sshrun/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

// BuildSpec 描述 CLI 表面，供脚本与 agent 发现（sshrun --spec）。
func (a App) BuildSpec() spec.Spec {
	flags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./sshrun.yaml or $HOME/.config/sshrun/sshrun.yaml"},
		{Name: "profile", Shorthand: "p", Env: config.EnvProfile, Default: "", Description: "Profile name (config: profiles.<name>)"},
		{Name: "format", Shorthand: "f", Env: config.EnvFormat, Default: "raw", Description: "Output format: raw|json|yaml|table"},
		{Name: "host", Env: config.EnvHost, Default: config.DefaultHost, Description: "SSH host"},
		{Name: "port", Env: config.EnvPort, Default: "22", Description: "SSH port"},
		{Name: "user", Env: config.EnvUser, Default: config.DefaultUser, Description: "SSH user"},
		{Name: "host-key-policy", Env: config.EnvHostKeyPolicy, Default: "tofu", Description: "Unknown host handling: strict|tofu"},
		{Name: "known-hosts", Default: "~/.ssh/known_hosts", Description: "known_hosts file"},
		{Name: "connect-timeout", Default: "10s", Description: "Timeout for TCP connect and SSH handshake"},
		{Name: "command-timeout", Default: "5m0s", Description: "Timeout for the remote command"},
		{Name: "verbose", Shorthand: "v", Default: "false", Description: "Debug logging to stderr"},
	}
	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Commands: []spec.CommandSpec{
			{
				Name:        "sshrun",
				Description: "Run one command on a remote host over SSH and forward its exit code",
				Args:        "command words (joined with spaces); stdin is used when none are given",
				Flags:       flags,
			},
		},
		PasswordSources: []spec.SourceSpec{
			{Order: 1, Env: secret.EnvPasswordFile, Description: "Path to a file holding the password; unreadable file is fatal"},
			{Order: 2, Env: secret.EnvPassword, Description: "Inline password (legacy, visible to ps)"},
			{Order: 3, Path: "~/" + secret.DefaultPasswordFile, Description: "Default password file"},
			{Order: 4, Description: "OS keyring (service " + secret.ServiceName + "), when the profile sets password_keyring"},
		},
		ErrorCodes: errors.AllCodes(),
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
