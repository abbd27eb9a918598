// Package slug derives URL slugs from entry titles.
// This is part of the Functional Core - all functions are pure with no I/O.
package slug

import (
	"fmt"
	"strings"
)

// =============================================================================
// Modes
// =============================================================================

// Mode selects how hyphen runs are collapsed after cleaning a title.
type Mode string

const (
	// ModeLiteral collapses only the first run of hyphens. This matches the
	// slugs the admin form has always produced.
	ModeLiteral Mode = "literal"

	// ModeCollapse collapses every run of hyphens.
	ModeCollapse Mode = "collapse"
)

// ParseMode parses a configured mode. An empty string selects ModeLiteral.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLiteral:
		return ModeLiteral, nil
	case ModeCollapse:
		return ModeCollapse, nil
	default:
		return "", fmt.Errorf("unknown slug mode %q", s)
	}
}

// Deriver returns the derivation function for the mode.
func Deriver(m Mode) func(string) string {
	if m == ModeCollapse {
		return DeriveCollapsed
	}
	return Derive
}

// =============================================================================
// Derivation
// =============================================================================

// Derive converts a title to a slug.
//
// The transformation rules are, in order:
//   - Every run of whitespace becomes a single hyphen
//   - Everything except ASCII letters, digits and hyphens is removed
//   - Uppercase letters are lowercased
//   - The first run of hyphens is collapsed to one hyphen; later runs are kept
//
// Example:
//
//	Derive("Hello World")        // returns "hello-world"
//	Derive("  Multi   Space  ")  // returns "-multi-space-"
//	Derive("a - b -- c")         // returns "a-b----c"
func Derive(title string) string {
	return collapseFirst(clean(title))
}

// DeriveCollapsed is Derive with every hyphen run collapsed.
//
//	DeriveCollapsed("a - b -- c")  // returns "a-b-c"
func DeriveCollapsed(title string) string {
	return collapseAll(clean(title))
}

// clean applies the whitespace, character-class and case rules.
func clean(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	inSpace := false
	for _, r := range title {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false

		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32)
		}
		// All other characters are dropped
	}
	return b.String()
}

func collapseFirst(s string) string {
	i := strings.IndexByte(s, '-')
	if i < 0 {
		return s
	}
	j := i
	for j < len(s) && s[j] == '-' {
		j++
	}
	return s[:i+1] + s[j:]
}

func collapseAll(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i > 0 && s[i-1] == '-' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// isSpace reports whether r is whitespace in the browser's regular
// expression sense, so server-side slugs match the ones typed in the form.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}
