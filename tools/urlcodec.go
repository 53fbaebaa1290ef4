package tools

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrInvalidURLEncoding = errors.New("invalid URL-encoded input")

// characters left alone by encodeURIComponent besides alphanumerics
const componentSafe = "-_.!~*'()"

// and additionally by encodeURI
const uriReserved = ";,/?:@&=+$#"

// EncodeURLComponent escapes everything except unreserved characters, like
// encodeURIComponent.
func EncodeURLComponent(input string) string {
	return escape(input, componentSafe)
}

// DecodeURLComponent reverses EncodeURLComponent.
func DecodeURLComponent(input string) (string, error) {
	out, err := url.PathUnescape(input)
	if err != nil || !utf8.ValidString(out) {
		return "", ErrInvalidURLEncoding
	}
	return out, nil
}

// EncodeURL escapes a whole URL, keeping its structural characters, like
// encodeURI.
func EncodeURL(input string) string {
	return escape(input, componentSafe+uriReserved)
}

// DecodeURL reverses EncodeURL. Escapes of reserved characters are kept
// as-is so the URL structure does not change.
func DecodeURL(input string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		if input[i] != '%' {
			b.WriteByte(input[i])
			continue
		}
		if i+2 >= len(input) {
			return "", ErrInvalidURLEncoding
		}
		seq := input[i : i+3]
		ch, err := url.PathUnescape(seq)
		if err != nil {
			return "", ErrInvalidURLEncoding
		}
		if len(ch) == 1 && strings.Contains(uriReserved, ch) {
			b.WriteString(seq)
		} else {
			b.WriteString(ch)
		}
		i += 2
	}

	out := b.String()
	if !utf8.ValidString(out) {
		return "", ErrInvalidURLEncoding
	}
	return out, nil
}

// ParseParams extracts query parameters from a query string or a full URL.
// A leading "?" and any "#fragment" are ignored and values may contain "=".
func ParseParams(input string) map[string]string {
	params := map[string]string{}

	query := strings.TrimPrefix(input, "?")
	if strings.TrimSpace(query) == "" {
		return params
	}
	if _, after, found := strings.Cut(query, "?"); found {
		query = after
	}
	query, _, _ = strings.Cut(query, "#")

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		dk, kerr := url.PathUnescape(key)
		dv, verr := url.PathUnescape(value)
		if kerr != nil || verr != nil {
			params[key] = value
			continue
		}
		params[dk] = dv
	}
	return params
}

// BuildParams encodes params as a query string with keys in sorted order.
// Blank keys are skipped.
func BuildParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, EncodeURLComponent(k)+"="+EncodeURLComponent(params[k]))
	}
	return strings.Join(pairs, "&")
}

func escape(input, safe string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if isAlnum(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
