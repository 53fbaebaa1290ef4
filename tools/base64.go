package tools

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"

	"markestedt/devpanel/classify"
)

var ErrInvalidBase64 = errors.New("invalid Base64 input")

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// EncodeBase64 encodes the UTF-8 bytes of input.
func EncodeBase64(input string) string {
	return base64.StdEncoding.EncodeToString([]byte(input))
}

// DecodeBase64 decodes trimmed input into text. Padding is optional, so
// anything the clipboard detector reports as Base64 decodes here too.
func DecodeBase64(input string) (string, error) {
	decoded, ok := classify.ForgivingDecode(strings.TrimSpace(input))
	if !ok {
		return "", ErrInvalidBase64
	}
	return strings.ToValidUTF8(string(decoded), "�"), nil
}

// IsValidBase64 reports whether input is padded Base64. Blank input is valid.
func IsValidBase64(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}
	if len(trimmed)%4 != 0 {
		return false
	}
	return base64Alphabet.MatchString(trimmed)
}
