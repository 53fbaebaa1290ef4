package tools

import (
	"strings"

	"markestedt/devpanel/classify"
)

// Tool describes one transformation screen of the panel
type Tool struct {
	ID          string
	Name        string
	Description string
	// AutoFill is the clipboard category that pre-populates the tool's input
	AutoFill classify.Category
}

var registry = []Tool{
	{ID: "json", Name: "JSON Formatter", Description: "Format, minify, and validate JSON", AutoFill: classify.JSON},
	{ID: "base64", Name: "Base64", Description: "Encode and decode Base64", AutoFill: classify.Base64},
	{ID: "url", Name: "URL Encoder", Description: "Encode and decode URLs", AutoFill: classify.URL},
	{ID: "html", Name: "HTML Encoder", Description: "Encode and decode HTML entities", AutoFill: classify.HTML},
}

// All returns every tool in menu order.
func All() []Tool {
	out := make([]Tool, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a tool by ID.
func Lookup(id string) (Tool, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Filter returns the tools whose name or description contains query,
// ignoring case. An empty query matches everything.
func Filter(query string) []Tool {
	q := strings.ToLower(query)
	if q == "" {
		return All()
	}
	var out []Tool
	for _, t := range registry {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}
