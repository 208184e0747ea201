package spec

import "github.com/zx06/sshrun/internal/errors"

type FlagSpec struct {
	Name        string `json:"name" yaml:"name"`
	Shorthand   string `json:"shorthand,omitempty" yaml:"shorthand,omitempty"`
	Env         string `json:"env,omitempty" yaml:"env,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type CommandSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Args        string     `json:"args,omitempty" yaml:"args,omitempty"`
	Flags       []FlagSpec `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// SourceSpec 描述一个密码来源，按 Order 依次尝试。
type SourceSpec struct {
	Order       int    `json:"order" yaml:"order"`
	Env         string `json:"env,omitempty" yaml:"env,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Spec struct {
	SchemaVersion   int           `json:"schema_version" yaml:"schema_version"`
	Commands        []CommandSpec `json:"commands" yaml:"commands"`
	PasswordSources []SourceSpec  `json:"password_sources" yaml:"password_sources"`
	ErrorCodes      []errors.Code `json:"error_codes" yaml:"error_codes"`
}
