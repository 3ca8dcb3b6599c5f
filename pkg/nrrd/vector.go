package nrrd

import (
	"strconv"
	"strings"
)

// Vector is a parenthesized coordinate tuple, e.g. "(1,0,0)".
type Vector []float64

// ParseVector rejects missing parentheses, empty vectors and empty components.
func ParseVector(s string) (Vector, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, malformed("vector %q: missing parentheses", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, malformed("vector %q: empty", s)
	}
	parts := strings.Split(inner, ",")
	v := make(Vector, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, malformed("vector %q: empty component", s)
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, malformed("vector %q: component %q", s, p)
		}
		v = append(v, f)
	}
	return v, nil
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', 17, 64))
	}
	b.WriteByte(')')
	return b.String()
}

// splitVectors tokenizes on whitespace that is not inside parentheses.
func splitVectors(s string) []string {
	var (
		out   []string
		depth int
		start = -1
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (r == ' ' || r == '\t'):
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// parseDirections reads one vector or "none" per token. A nil entry is none.
func parseDirections(s string) ([]Vector, error) {
	toks := splitVectors(s)
	if len(toks) == 0 {
		return nil, malformed("no directions")
	}
	out := make([]Vector, len(toks))
	for i, t := range toks {
		if t == "none" {
			continue
		}
		v, err := ParseVector(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatDirections(dirs []Vector) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		if d == nil {
			parts[i] = "none"
			continue
		}
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

func parseVectorList(s string) ([]Vector, error) {
	toks := splitVectors(s)
	if len(toks) == 0 {
		return nil, malformed("no vectors")
	}
	out := make([]Vector, len(toks))
	for i, t := range toks {
		v, err := ParseVector(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatVectorList(vs []Vector) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
