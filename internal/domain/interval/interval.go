// Package interval evaluates the interval expressions used by percentile
// calibration tables: "<N", ">N", "A-B" (inclusive) and "N" (exact).
//
// The string form is canonical and is stored as-is; Expr is the compiled
// projection and may be cached freely since it is immutable.
package interval

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindLT
	KindGT
	KindRange
	KindEq
)

func (k Kind) String() string {
	switch k {
	case KindLT:
		return "lt"
	case KindGT:
		return "gt"
	case KindRange:
		return "range"
	case KindEq:
		return "eq"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind Kind
	A    float64
	B    float64
	Raw  string
}

var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// Normalize trims whitespace and maps the en dash, em dash and minus sign
// to an ASCII hyphen.
func Normalize(expr string) string {
	return strings.TrimSpace(dashReplacer.Replace(expr))
}

// Parse compiles expr. The second return value is false for malformed input.
func Parse(expr string) (Expr, bool) {
	s := Normalize(expr)
	out := Expr{Raw: expr}
	if s == "" {
		return out, false
	}

	switch s[0] {
	case '<':
		n, ok := parseNumber(s[1:])
		if !ok {
			return out, false
		}
		out.Kind, out.A = KindLT, n
		return out, true
	case '>':
		n, ok := parseNumber(s[1:])
		if !ok {
			return out, false
		}
		out.Kind, out.A = KindGT, n
		return out, true
	}

	if n, ok := parseNumber(s); ok {
		out.Kind, out.A = KindEq, n
		return out, true
	}

	// Skip index 0 so a leading sign is never taken as the separator.
	idx := strings.Index(s[1:], "-")
	if idx < 0 {
		return out, false
	}
	idx++
	a, okA := parseNumber(s[:idx])
	b, okB := parseNumber(s[idx+1:])
	if !okA || !okB {
		return out, false
	}
	out.Kind, out.A, out.B = KindRange, a, b
	return out, true
}

// Contains reports whether v satisfies the expression. Invalid expressions
// contain nothing.
func (e Expr) Contains(v float64) bool {
	switch e.Kind {
	case KindLT:
		return v < e.A
	case KindGT:
		return v > e.A
	case KindRange:
		return e.A <= v && v <= e.B
	case KindEq:
		return v == e.A
	default:
		return false
	}
}

func (e Expr) Valid() bool {
	return e.Kind != KindInvalid
}

// InRange parses and evaluates in one step. It never panics; malformed
// expressions yield false.
func InRange(v float64, expr string) bool {
	e, ok := Parse(expr)
	if !ok {
		return false
	}
	return e.Contains(v)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
