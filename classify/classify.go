package classify

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

// Category is the best-guess kind of a clipboard payload
type Category string

const (
	JSON    Category = "json"
	URL     Category = "url"
	HTML    Category = "html"
	Base64  Category = "base64"
	Unknown Category = "unknown"
)

const (
	minBase64Length = 4
	printableRatio  = 0.8
)

var (
	htmlTagPattern  = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	base64Pattern   = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
	urlEscapes      = []string{"%20", "%3A", "%2F"}
	htmlEntityHints = []string{"&lt;", "&gt;", "&amp;", "&quot;"}
)

// Classify returns the category of text. Checks run in priority order and
// the first match wins; anything unmatched is Unknown.
func Classify(text string) Category {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Unknown
	}

	switch {
	case isJSON(trimmed):
		return JSON
	case isURL(trimmed):
		return URL
	case isHTML(trimmed):
		return HTML
	case isBase64(trimmed):
		return Base64
	default:
		return Unknown
	}
}

func isJSON(text string) bool {
	object := strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")
	array := strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
	if !object && !array {
		return false
	}
	return json.Valid([]byte(text))
}

func isURL(text string) bool {
	for _, esc := range urlEscapes {
		if strings.Contains(text, esc) {
			return true
		}
	}

	u, err := url.Parse(text)
	if err != nil || !u.IsAbs() {
		return false
	}
	// "http:example.com" parses with an opaque part instead of a host
	if u.Host == "" && u.Opaque == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func isHTML(text string) bool {
	for _, entity := range htmlEntityHints {
		if strings.Contains(text, entity) {
			return true
		}
	}
	return htmlTagPattern.MatchString(text)
}

func isBase64(text string) bool {
	if len(text) < minBase64Length || !base64Pattern.MatchString(text) {
		return false
	}

	decoded, ok := ForgivingDecode(text)
	if !ok || len(decoded) == 0 {
		return false
	}

	printable := 0
	for _, b := range decoded {
		if b >= 32 && b < 127 {
			printable++
		}
	}
	return float64(printable)/float64(len(decoded)) > printableRatio
}

// ForgivingDecode decodes Base64 the way browsers' atob does: padding is
// only stripped from inputs whose length is a multiple of four, and unpadded
// input is accepted as long as it is not one character over a quantum.
func ForgivingDecode(text string) ([]byte, bool) {
	if len(text)%4 == 0 {
		text = strings.TrimSuffix(text, "=")
		text = strings.TrimSuffix(text, "=")
	}
	if len(text)%4 == 1 || strings.Contains(text, "=") {
		return nil, false
	}

	decoded, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
