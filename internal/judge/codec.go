package judge

import (
	"encoding/base64"
	"strings"
	"unicode"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// EncodeText base64-encodes UTF-8 text for the engine.
func EncodeText(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeText reverses EncodeText. The engine wraps long payloads across lines,
// so whitespace is ignored. Input that is not valid base64 is returned unchanged.
func DecodeText(s string) string {
	if s == "" {
		return ""
	}
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return s
	}
	return string(raw)
}

func decodeResult(r domain.ExecutionResult) domain.ExecutionResult {
	r.Stdout = DecodeText(r.Stdout)
	r.Stderr = DecodeText(r.Stderr)
	r.CompileOutput = DecodeText(r.CompileOutput)
	r.Message = DecodeText(r.Message)
	return r
}
