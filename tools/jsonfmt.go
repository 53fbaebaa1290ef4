package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validation is the result of checking a JSON document
type Validation struct {
	Valid   bool
	Message string
	// 1-based position of a syntax error; zero when unknown
	Line   int
	Column int
}

// FormatJSON re-indents input with indent spaces per level. Key order is
// preserved.
func FormatJSON(input string, indent int) (string, error) {
	if err := checkJSON(input); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(input), "", strings.Repeat(" ", indent)); err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// MinifyJSON strips insignificant whitespace.
func MinifyJSON(input string) (string, error) {
	if err := checkJSON(input); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(input)); err != nil {
		return "", fmt.Errorf("failed to minify JSON: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// SortJSONKeys formats input with object keys sorted at every depth.
func SortJSONKeys(input string, indent int) (string, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}
	// encoding/json writes map keys in sorted order
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ValidateJSON reports whether input is valid JSON. Blank input is valid.
func ValidateJSON(input string) Validation {
	if strings.TrimSpace(input) == "" {
		return Validation{Valid: true}
	}

	var v any
	err := json.Unmarshal([]byte(input), &v)
	if err == nil {
		return Validation{Valid: true}
	}

	res := Validation{Message: err.Error()}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		// Offset counts the offending byte itself
		res.Line, res.Column = lineColumn(input, int(syntaxErr.Offset)-1)
	}
	return res
}

func checkJSON(input string) error {
	if v := ValidateJSON(input); !v.Valid {
		return fmt.Errorf("invalid JSON: %s", v.Message)
	}
	return nil
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(text string, offset int) (int, int) {
	offset = max(0, min(offset, len(text)))
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	column := len(before) - strings.LastIndex(before, "\n")
	return line, column
}
