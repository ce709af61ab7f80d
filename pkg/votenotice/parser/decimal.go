package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses a register number. It accepts a dot or a comma as the
// decimal separator, spaces as thousands separators, and simple fractions
// such as "1/2". Empty text is zero. ok is false only when non-empty text
// could not be parsed; the value is then zero.
func ParseDecimal(s string) (v float64, ok bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, true
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, okN := parseNumber(num)
		d, okD := parseNumber(den)
		if !okN || !okD || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	return parseNumber(s)
}

func parseNumber(s string) (float64, bool) {
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
