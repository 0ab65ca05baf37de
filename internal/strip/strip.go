// Package strip removes comments from C-family and build-script sources
// without touching string or character literals.
package strip

import (
	"strings"

	"decomment/internal/dialect"
)

// Replacement returns the text a comment span collapses to. C-family comments
// leave a blank so adjacent tokens stay separated; hash comments vanish.
func Replacement(d dialect.Dialect) string {
	if d == dialect.CFamily {
		return " "
	}
	return ""
}

// Strip returns src with every comment span replaced and every other span
// copied verbatim. Input in dialect.None is returned unchanged.
func Strip(d dialect.Dialect, src string) string {
	if d == dialect.None {
		return src
	}

	spans := Scan(d, src)
	repl := Replacement(d)

	var result strings.Builder
	result.Grow(len(src))
	for _, sp := range spans {
		if sp.IsComment() {
			result.WriteString(repl)
			continue
		}
		result.WriteString(src[sp.Start:sp.End])
	}
	return result.String()
}

// Apply strips comments and then normalizes trailing whitespace. It is the
// full transform a rewritten file receives.
func Apply(d dialect.Dialect, src string) string {
	if d == dialect.None {
		return src
	}
	return Normalize(Strip(d, src))
}
