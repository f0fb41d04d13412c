package prompts

import "strings"

// fallbacks maps placeholder names to the value substituted when the caller
// supplies none. Session-context placeholders get generic noun phrases so a
// template always reads sensibly; retrieval placeholders default to empty —
// an unconfigured story memory simply contributes nothing.
var fallbacks = map[string]string{
	"user_name":         "User",
	"user_domain":       "Technology",
	"user_history":      "Software development experience",
	"chat_history":      "",
	"retrieved_stories": "",
	"retrieved_data":    "",
	"missing_elements":  "",
	"user_fatigue":      "",
}

// Substitute replaces every {name} placeholder in template with vars[name]
// when supplied (an empty string counts as supplied), else with the
// documented fallback for that name. Placeholders with neither a value nor a
// fallback are left verbatim rather than silently swallowed.
//
// The scan is a single left-to-right pass: replacement text is never
// re-scanned for further placeholders, so values containing braces cannot
// inject new substitutions.
func Substitute(template string, vars map[string]string) string {
	var sb strings.Builder
	sb.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			sb.WriteByte(template[i])
			i++
			continue
		}

		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			// No closing brace anywhere ahead — emit the rest as-is.
			sb.WriteString(template[i:])
			break
		}

		name := template[i+1 : i+1+end]
		if !placeholderName(name) {
			sb.WriteByte('{')
			i++
			continue
		}

		if v, ok := vars[name]; ok {
			sb.WriteString(v)
		} else if v, ok := fallbacks[name]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(template[i : i+end+2])
		}
		i += end + 2
	}

	return sb.String()
}

// placeholderName reports whether s is a valid placeholder name:
// non-empty, ASCII letters, digits, and underscores only.
func placeholderName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
