package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// single pass, so "&amp;lt;" decodes to "&lt;" and not "<"
var htmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&apos;", "'",
	"&#x2F;", "/",
	"&#47;", "/",
	"&#x60;", "`",
	"&#96;", "`",
	"&#x3D;", "=",
	"&#61;", "=",
	"&nbsp;", " ",
	"&#160;", " ",
	"&copy;", "©",
	"&#169;", "©",
	"&reg;", "®",
	"&#174;", "®",
	"&trade;", "™",
	"&#8482;", "™",
)

var (
	decimalEntity = regexp.MustCompile(`&#(\d+);`)
	hexEntity     = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
)

// EncodeHTML escapes the characters that are significant in markup and
// attribute values.
func EncodeHTML(input string) string {
	return htmlEscaper.Replace(input)
}

// EncodeHTMLFull is EncodeHTML plus numeric entities for non-ASCII runes.
func EncodeHTMLFull(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r > 127:
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteString(htmlEscaper.Replace(string(r)))
		}
	}
	return b.String()
}

// DecodeHTML decodes the known named entities and any numeric entity.
func DecodeHTML(input string) string {
	out := htmlUnescaper.Replace(input)
	out = decimalEntity.ReplaceAllStringFunc(out, func(m string) string {
		n, err := strconv.ParseInt(decimalEntity.FindStringSubmatch(m)[1], 10, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
	out = hexEntity.ReplaceAllStringFunc(out, func(m string) string {
		n, err := strconv.ParseInt(hexEntity.FindStringSubmatch(m)[1], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
	return out
}
