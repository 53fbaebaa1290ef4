package classify

import (
	"encoding/base64"
	"html"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{name: "empty", text: "", want: Unknown},
		{name: "whitespace", text: "   \n\t", want: Unknown},
		{name: "json object", text: `{"name": "devpanel", "ok": true}`, want: JSON},
		{name: "json array", text: `[1, 2, 3]`, want: JSON},
		{name: "json with surrounding space", text: "\n  {\"a\": [1]}  \n", want: JSON},
		{name: "json containing entity", text: `{"body": "&lt;b&gt;"}`, want: JSON},
		{name: "json containing escape", text: `{"path": "%2Fhome"}`, want: JSON},
		{name: "braced but invalid json", text: `{not json}`, want: Unknown},
		{name: "bare json scalar", text: `"just a string"`, want: Unknown},
		{name: "percent space", text: "hello%20world", want: URL},
		{name: "percent colon", text: "a%3Ab", want: URL},
		{name: "percent slash", text: "a%2Fb", want: URL},
		{name: "http url", text: "http://example.com", want: URL},
		{name: "https url with path", text: "https://example.com/a/b?q=1#frag", want: URL},
		{name: "ftp url", text: "ftp://example.com/file", want: Unknown},
		{name: "http url without slashes", text: "http:example.com", want: URL},
		{name: "scheme only", text: "https://", want: Unknown},
		{name: "mailto", text: "mailto:someone@example.com", want: Unknown},
		{name: "scheme without host", text: "https://", want: Unknown},
		{name: "escaped url beats html", text: "&lt;a%20href&gt;", want: URL},
		{name: "html entity", text: "&lt;div&gt;", want: HTML},
		{name: "html amp", text: "fish &amp; chips", want: HTML},
		{name: "html quot", text: "say &quot;hi&quot;", want: HTML},
		{name: "html tag", text: `<div class="x">hi</div>`, want: HTML},
		{name: "not a tag", text: "1 < 2 > 0", want: Unknown},
		{name: "base64 padded", text: "SGVsbG8gV29ybGQ=", want: Base64},
		{name: "base64 short printable", text: "SGk=", want: Base64},
		{name: "base64 unpadded", text: "SGVsbG8", want: Base64},
		{name: "base64 misplaced padding", text: "SGVsbA=", want: Unknown},
		{name: "base64 garbage decode", text: "test", want: Unknown},
		{name: "base64 zero bytes", text: "AAAA", want: Unknown},
		{name: "digits decode to garbage", text: "1234", want: Unknown},
		{name: "plain prose", text: "hello world", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyShortInputNeverBase64(t *testing.T) {
	for _, text := range []string{"a", "ab", "abc", "QQ=", "SGk", "YQ"} {
		assert.NotEqual(t, Base64, Classify(text), text)
	}
}

func TestClassifyEncoderOutput(t *testing.T) {
	plain := "The quick brown fox jumps over the lazy dog"

	assert.Equal(t, Base64, Classify(base64.StdEncoding.EncodeToString([]byte(plain))))
	assert.Equal(t, URL, Classify(url.PathEscape("/home/user/my file.txt")))
	assert.Equal(t, HTML, Classify(html.EscapeString(`<a href="/">home</a>`)))
}

func TestClassifyIsDeterministic(t *testing.T) {
	text := `<p>hello</p>`
	first := Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text))
	}
}
