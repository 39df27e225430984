package agenda

import "strings"

// Escape backslash-prefixes the characters markdown would otherwise interpret
// inside an issue title.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 10)
	for _, r := range s {
		switch r {
		case '_', '*', '\\', '[', ']', '-', '<', '>', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
