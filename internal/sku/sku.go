// Package sku derives and validates product stock-keeping units. A SKU is
// lowercase alphanumeric segments joined by single hyphens, at most 32
// characters, e.g. "sac-de-riz-25kg".
package sku

import (
	"regexp"
	"strings"
)

const maxLen = 32

var reSKU = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Valid reports whether s is a well-formed SKU.
func Valid(s string) bool {
	return len(s) <= maxLen && reSKU.MatchString(s)
}

// Derive builds a SKU from a product name: lowercase, alphanumeric runs
// kept, everything else collapsed into single hyphens, capped at 32
// characters. Returns "" when the name has no usable characters.
func Derive(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}
