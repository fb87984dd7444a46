// Package strutil holds small string helpers shared by the wire mappers.
package strutil

import "strings"

// IsNotBlank reports whether s contains at least one non-whitespace character.
// The provider schema treats empty and whitespace-only fields as absent, so
// mappers gate every optional field on this.
func IsNotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsBlank is the complement of IsNotBlank.
func IsBlank(s string) bool {
	return !IsNotBlank(s)
}
