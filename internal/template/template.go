// Package template renders {{variable}} placeholders in prompt and task
// text. It supports plain substitution plus Mustache-style conditional
// sections: {{#var}}...{{/var}} keeps its body only when var has a
// non-empty value.
package template

import (
	"strings"

	"recipeforge/internal/manifest"
)

// Render resolves conditional sections and replaces {{key}} placeholders
// with values from vars. Placeholders without a corresponding key are left
// untouched so callers can spot unbound variables in output.
func Render(tmpl string, vars map[string]string) string {
	result := renderSections(tmpl, vars)
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// renderSections processes {{#name}}...{{/name}} blocks. A section's body
// is kept (and recursively processed) when vars[name] is non-empty,
// dropped otherwise. Unterminated sections are left as-is.
func renderSections(tmpl string, vars map[string]string) string {
	var sb strings.Builder
	rest := tmpl

	for {
		start := strings.Index(rest, "{{#")
		if start < 0 {
			sb.WriteString(rest)
			return sb.String()
		}

		nameEnd := strings.Index(rest[start:], "}}")
		if nameEnd < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		nameEnd += start
		name := rest[start+3 : nameEnd]

		closing := "{{/" + name + "}}"
		bodyStart := nameEnd + 2
		closeIdx := strings.Index(rest[bodyStart:], closing)
		if closeIdx < 0 {
			// No matching close tag - emit through the open tag and move on.
			sb.WriteString(rest[:bodyStart])
			rest = rest[bodyStart:]
			continue
		}
		closeIdx += bodyStart

		sb.WriteString(rest[:start])
		if vars[name] != "" {
			sb.WriteString(renderSections(rest[bodyStart:closeIdx], vars))
		}
		rest = rest[closeIdx+len(closing):]
	}
}

// MissingRequired returns the names of required prompt variables that are
// absent or empty in vars, in declaration order.
func MissingRequired(p *manifest.Prompt, vars map[string]string) []string {
	var missing []string
	for _, v := range p.Variables {
		if v.Required && vars[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	return missing
}
