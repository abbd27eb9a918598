package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Derive Tests
// =============================================================================

func TestDerive_Basic(t *testing.T) {
	assert.Equal(t, "hello-world", Derive("Hello World"))
}

func TestDerive_EmptyString(t *testing.T) {
	assert.Equal(t, "", Derive(""))
}

func TestDerive_NonASCIIAndPunctuation(t *testing.T) {
	assert.Equal(t, "caf", Derive("Café!!"))
}

func TestDerive_BoundaryWhitespaceKeepsHyphens(t *testing.T) {
	// Whitespace runs become single hyphens before stripping, so boundary
	// whitespace leaves a hyphen at each end.
	assert.Equal(t, "-multi-space-", Derive("  Multi   Space  "))
}

func TestDerive_OnlyFirstHyphenRunCollapses(t *testing.T) {
	assert.Equal(t, "a-b--c", Derive("a---b--c"))
	assert.Equal(t, "a-b----c", Derive("a - b -- c"))
}

func TestDerive_RemovalCanJoinHyphens(t *testing.T) {
	// "!" separates the two whitespace runs and is dropped afterwards.
	assert.Equal(t, "x-y--z", Derive("x y ! z"))
}

func TestDerive_TabsAndNewlines(t *testing.T) {
	assert.Equal(t, "line-one-two", Derive("line\tone\n\ntwo"))
}

func TestDerive_UnicodeSpaces(t *testing.T) {
	assert.Equal(t, "no-break", Derive("no\u00a0break"))
	assert.Equal(t, "em-space", Derive("em\u2003space"))
}

func TestDerive_UnderscoreDropped(t *testing.T) {
	assert.Equal(t, "helloworld", Derive("hello_world"))
}

func TestDerive_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Hello World", "hello-world"},
		{"uppercase", "UPPERCASE NAME", "uppercase-name"},
		{"numbers", "Test123", "test123"},
		{"version", "App2Go v3.0", "app2go-v30"},
		{"special chars", "!@#$%^&*()", ""},
		{"hyphens preserved", "my-app-name", "my-app-name"},
		{"leading hyphen run", "--lead", "-lead"},
		{"only whitespace", "   ", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Derive(tt.input))
		})
	}
}

// =============================================================================
// DeriveCollapsed Tests
// =============================================================================

func TestDeriveCollapsed_CollapsesEveryRun(t *testing.T) {
	assert.Equal(t, "a-b-c", DeriveCollapsed("a - b -- c"))
	assert.Equal(t, "-multi-space-", DeriveCollapsed("  Multi   Space  "))
}

func TestDeriveCollapsed_AgreesWithDeriveOnSingleRun(t *testing.T) {
	assert.Equal(t, Derive("Hello   World"), DeriveCollapsed("Hello   World"))
}

// =============================================================================
// Properties
// =============================================================================

var propertyInputs = []string{
	"",
	"Hello World",
	"  Multi   Space  ",
	"Café!!",
	"a - b -- c",
	"a---b--c",
	"-!-",
	"x y ! z",
	"日本語 title",
	"MiXeD\tCaSe\nLines",
	"already-clean-slug",
	"tab\t\t-dash",
}

func TestDerive_OnlyAllowedCharacters(t *testing.T) {
	for _, in := range propertyInputs {
		for _, derive := range []func(string) string{Derive, DeriveCollapsed} {
			out := derive(in)
			for _, r := range out {
				ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
				assert.Truef(t, ok, "input %q produced %q", in, out)
			}
		}
	}
}

func TestDerive_Idempotent(t *testing.T) {
	// The first-run-only collapse was suspected of breaking idempotence.
	// After one pass the first hyphen run is already a single hyphen, so a
	// second pass leaves the slug unchanged.
	for _, in := range propertyInputs {
		once := Derive(in)
		assert.Equalf(t, once, Derive(once), "input %q", in)
	}
}

func TestDerive_NotFullyCollapsed(t *testing.T) {
	out := Derive("first  second -- third")
	assert.True(t, strings.Contains(out, "--"))
	assert.False(t, strings.Contains(DeriveCollapsed("first  second -- third"), "--"))
}

func TestDeriveCollapsed_Idempotent(t *testing.T) {
	for _, in := range propertyInputs {
		once := DeriveCollapsed(in)
		assert.Equalf(t, once, DeriveCollapsed(once), "input %q", in)
	}
}

// =============================================================================
// Mode Tests
// =============================================================================

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLiteral, m)

	m, err = ParseMode(" Collapse ")
	require.NoError(t, err)
	assert.Equal(t, ModeCollapse, m)

	_, err = ParseMode("global")
	assert.Error(t, err)
}

func TestDeriver(t *testing.T) {
	assert.Equal(t, "a-b--c", Deriver(ModeLiteral)("a b--c"))
	assert.Equal(t, "a-b-c", Deriver(ModeCollapse)("a b--c"))
}
