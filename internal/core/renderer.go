package core

import (
	"fmt"
	"html"
	"regexp"
)

// Renderer substitutes {{name}} placeholders in template HTML. {{name}} is
// HTML-escaped, {{{name}}} is inserted raw, unknown names render empty.
type Renderer struct {
	regex *regexp.Regexp
}

func NewRenderer() *Renderer {
	return &Renderer{
		regex: regexp.MustCompile(`\{\{\{\s*([a-zA-Z0-9_]+)\s*\}\}\}|\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`),
	}
}

// Render replaces every placeholder in src with its value from values.
func (r *Renderer) Render(src string, values map[string]any) string {
	return r.regex.ReplaceAllStringFunc(src, func(match string) string {
		groups := r.regex.FindStringSubmatch(match)
		if groups[1] != "" {
			return stringify(values[groups[1]])
		}
		return html.EscapeString(stringify(values[groups[2]]))
	})
}

// Placeholders lists the distinct variable names used in src, in order of first use.
func (r *Renderer) Placeholders(src string) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, groups := range r.regex.FindAllStringSubmatch(src, -1) {
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
