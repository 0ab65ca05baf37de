package strip

import (
	"strings"
	"unicode"
)

// Normalize removes trailing whitespace from every line. The number and
// position of newlines is unchanged, blank lines are kept, and a carriage
// return that ends a CRLF line survives the trim.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")

	var result strings.Builder
	result.Grow(len(text))

	for i, line := range lines {
		last := i == len(lines)-1

		if !last && strings.HasSuffix(line, "\r") {
			result.WriteString(strings.TrimRightFunc(line[:len(line)-1], unicode.IsSpace))
			result.WriteByte('\r')
		} else {
			result.WriteString(strings.TrimRightFunc(line, unicode.IsSpace))
		}

		if !last {
			result.WriteByte('\n')
		}
	}

	return result.String()
}
