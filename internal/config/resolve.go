package config

import (
	"os"
	"strconv"
	"time"

	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/ssh"
)

// Resolve 合并连接目标与运行参数：CLI > ENV > profile > 内置默认值。
func Resolve(opts Options) (Resolved, *errors.XError) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	// 1) 读取配置文件（如有）
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// 2) 选择 profile：--profile > SSHRUN_PROFILE > profiles.default > 空
	name := ""
	explicit := true
	if opts.CLIProfileSet {
		name = opts.CLIProfile
	} else if v := getenv(EnvProfile); v != "" {
		name = v
	} else {
		explicit = false
		if _, ok := cfg.Profiles["default"]; ok {
			name = "default"
		}
	}
	var p Profile
	if name != "" {
		found, ok := cfg.Profiles[name]
		if !ok && explicit {
			return Resolved{}, errors.New(errors.CodeCfgInvalid, "profile not found", map[string]any{"profile": name, "config": cfgPath})
		}
		p = found
	}

	r := Resolved{
		ConfigPath:      cfgPath,
		ProfileName:     name,
		Format:          "raw",
		Host:            DefaultHost,
		Port:            ssh.DefaultPort,
		User:            DefaultUser,
		KnownHostsFile:  ssh.DefaultKnownHostsPath(),
		ConnectTimeout:  ssh.DefaultConnectTimeout,
		CommandTimeout:  ssh.DefaultCommandTimeout,
		PasswordKeyring: p.PasswordKeyring,
	}
	policy := string(ssh.PolicyTOFU)

	// 3) profile
	if p.Format != "" {
		r.Format = p.Format
	}
	if p.Host != "" {
		r.Host = p.Host
	}
	if p.Port != 0 {
		r.Port = p.Port
	}
	if p.User != "" {
		r.User = p.User
	}
	if p.KnownHostsFile != "" {
		r.KnownHostsFile = p.KnownHostsFile
	}
	if p.HostKeyPolicy != "" {
		policy = p.HostKeyPolicy
	}
	if p.ConnectTimeout != "" {
		d, xe := parseTimeout("connect_timeout", p.ConnectTimeout)
		if xe != nil {
			return Resolved{}, xe
		}
		r.ConnectTimeout = d
	}
	if p.CommandTimeout != "" {
		d, xe := parseTimeout("command_timeout", p.CommandTimeout)
		if xe != nil {
			return Resolved{}, xe
		}
		r.CommandTimeout = d
	}

	// 4) ENV
	if v := getenv(EnvFormat); v != "" {
		r.Format = v
	}
	if v := getenv(EnvHost); v != "" {
		r.Host = v
	}
	if v := getenv(EnvUser); v != "" {
		r.User = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Resolved{}, errors.Wrap(errors.CodeCfgInvalid, "invalid "+EnvPort, map[string]any{"value": v}, err)
		}
		r.Port = port
	}
	if v := getenv(EnvHostKeyPolicy); v != "" {
		policy = v
	}

	// 5) CLI
	c := opts.CLI
	if c.Format != "" {
		r.Format = c.Format
	}
	if c.Host != "" {
		r.Host = c.Host
	}
	if c.Port != 0 {
		r.Port = c.Port
	}
	if c.User != "" {
		r.User = c.User
	}
	if c.KnownHostsFile != "" {
		r.KnownHostsFile = c.KnownHostsFile
	}
	if c.HostKeyPolicy != "" {
		policy = c.HostKeyPolicy
	}
	if c.ConnectTimeout != 0 {
		r.ConnectTimeout = c.ConnectTimeout
	}
	if c.CommandTimeout != 0 {
		r.CommandTimeout = c.CommandTimeout
	}

	// 6) 校验
	hp, xe := ssh.ParseHostKeyPolicy(policy)
	if xe != nil {
		return Resolved{}, xe
	}
	r.HostKeyPolicy = hp
	if r.Port <= 0 || r.Port > 65535 {
		return Resolved{}, errors.New(errors.CodeCfgInvalid, "port out of range", map[string]any{"port": r.Port})
	}
	if r.ConnectTimeout <= 0 || r.CommandTimeout <= 0 {
		return Resolved{}, errors.New(errors.CodeCfgInvalid, "timeouts must be positive", map[string]any{
			"connect_timeout": r.ConnectTimeout.String(),
			"command_timeout": r.CommandTimeout.String(),
		})
	}
	return r, nil
}

func parseTimeout(field, s string) (time.Duration, *errors.XError) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.Wrap(errors.CodeCfgInvalid, "invalid "+field, map[string]any{field: s}, err)
	}
	return d, nil
}
