package output

type Format string

const (
	// FormatRaw 把远端 stdout/stderr 原样写到本地 stdout/stderr。
	FormatRaw   Format = "raw"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

func IsValid(f Format) bool {
	switch f {
	case FormatRaw, FormatJSON, FormatYAML, FormatTable:
		return true
	default:
		return false
	}
}
