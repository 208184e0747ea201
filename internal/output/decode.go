package output

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Decode 将远端字节按 UTF-8 解码，非法字节替换为 U+FFFD，永不失败。
func Decode(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}
