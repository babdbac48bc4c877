package domain

import (
	"regexp"
	"strings"
)

var symbolRe = regexp.MustCompile(`^[A-Z0-9.\-]{1,12}$`)

// NormalizeSymbol trims whitespace and upper-cases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateSymbol reports whether s is a plausible ticker after normalization.
func ValidateSymbol(s string) bool {
	return symbolRe.MatchString(s)
}
