package nrrd

import "strings"

// parseQuoted reads a whitespace separated list of double-quoted strings.
// Inside quotes, \" and \\ are escapes. Empty strings are allowed.
func parseQuoted(s string) ([]string, error) {
	var out []string
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i == len(s) {
			break
		}
		if s[i] != '"' {
			return nil, malformed("expected '\"' at offset %d in %q", i, s)
		}
		i++
		var b strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			i++
			if c == '"' {
				closed = true
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return nil, malformed("unterminated quote in %q", s)
		}
		out = append(out, b.String())
	}
	if len(out) == 0 {
		return nil, malformed("empty quoted list")
	}
	return out, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func formatQuoted(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('"')
		quoteEscaper.WriteString(&b, it)
		b.WriteByte('"')
	}
	return b.String()
}
