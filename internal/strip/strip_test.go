package strip

import (
	"testing"

	"decomment/internal/dialect"
)

func TestStripCFamily(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			// Comment markers inside a string literal are part of the literal.
			name:     "url with block comment markers in string",
			input:    `char *s = "http://x.com/* not a comment */";`,
			expected: `char *s = "http://x.com/* not a comment */";`,
		},
		{
			name:     "line comment",
			input:    `int x = 1; // note`,
			expected: `int x = 1;  `,
		},
		{
			name:     "line comment keeps newline",
			input:    "a(); // first\nb(); // second\n",
			expected: "a();  \nb();  \n",
		},
		{
			name:     "multi-line block comment collapses to one blank",
			input:    "a();/* line1\nline2 */b();",
			expected: "a(); b();",
		},
		{
			name:     "unterminated block comment is kept",
			input:    `a(); /* no closer`,
			expected: `a(); /* no closer`,
		},
		{
			name:     "terminated then unterminated block comment",
			input:    `/* a */ b /* c`,
			expected: `  b /* c`,
		},
		{
			name:     "block comment ends at nearest closer",
			input:    `/* a /* b */ c */`,
			expected: `  c */`,
		},
		{
			name:     "slash star slash is not a complete comment",
			input:    `x /*/ y`,
			expected: `x /*/ y`,
		},
		{
			name:     "char literal holding a double quote",
			input:    `char c = '"'; // quote`,
			expected: `char c = '"';  `,
		},
		{
			name:     "char literals holding comment characters",
			input:    `if (c == '/' || c == '*') {}`,
			expected: `if (c == '/' || c == '*') {}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `puts("a\"b // c"); // d`,
			expected: `puts("a\"b // c");  `,
		},
		{
			name:     "escaped backslash before closing quote",
			input:    `s = "dir\\"; // trailing`,
			expected: `s = "dir\\";  `,
		},
		{
			name:     "escaped single quote",
			input:    `c = '\''; /* q */`,
			expected: `c = '\'';  `,
		},
		{
			// An unterminated string does not swallow the rest of the file.
			name:     "unterminated string",
			input:    `x = "abc // tail`,
			expected: `x = "abc  `,
		},
		{
			name:     "string spanning lines",
			input:    "s = \"a\\\nb // c\";",
			expected: "s = \"a\\\nb // c\";",
		},
		{
			name:     "division is code",
			input:    `a = b / c * d;`,
			expected: `a = b / c * d;`,
		},
		{
			name:     "line comment before CRLF",
			input:    "a; // c\r\nb;\r\n",
			expected: "a;  \r\nb;\r\n",
		},
		{
			name:     "comment at end of input",
			input:    "x;//",
			expected: "x; ",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "hash is code in c-family",
			input:    `#include "a.h" // dep`,
			expected: `#include "a.h"  `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Strip(dialect.CFamily, tt.input)
			if result != tt.expected {
				t.Errorf("Strip(CFamily) = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestStripBuildScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing hash comment",
			input:    `set(X 1) # comment`,
			expected: `set(X 1) `,
		},
		{
			name:     "hash inside string",
			input:    `set(Y "#not a comment")`,
			expected: `set(Y "#not a comment")`,
		},
		{
			// Deleting a whole-line comment leaves an empty line behind.
			name:     "full line comment",
			input:    "# header\nproject(x)\n",
			expected: "\nproject(x)\n",
		},
		{
			name:     "escaped quote inside string",
			input:    `set(A "x\"#y") # z`,
			expected: `set(A "x\"#y") `,
		},
		{
			name:     "string spanning lines",
			input:    "set(A \"line1\n# not a comment\")",
			expected: "set(A \"line1\n# not a comment\")",
		},
		{
			name:     "escaped newline inside string",
			input:    "set(A \"x\\\n#y\")",
			expected: "set(A \"x\\\n#y\")",
		},
		{
			name:     "unterminated string",
			input:    `set(A "abc # c`,
			expected: `set(A "abc `,
		},
		{
			name:     "single quotes are not literals",
			input:    `message('#')`,
			expected: `message('`,
		},
		{
			name:     "c comments are code",
			input:    `set(A 1) /* kept */ // kept`,
			expected: `set(A 1) /* kept */ // kept`,
		},
		{
			name:     "hash comment before CRLF",
			input:    "a() # c\r\nb()\r\n",
			expected: "a() \r\nb()\r\n",
		},
		{
			name:     "consecutive comment lines",
			input:    "#a\n#b\n#c",
			expected: "\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Strip(dialect.BuildScript, tt.input)
			if result != tt.expected {
				t.Errorf("Strip(BuildScript) = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		dialect  dialect.Dialect
		input    string
		expected string
	}{
		{
			name:     "line comment trimmed",
			dialect:  dialect.CFamily,
			input:    `int x = 1; // note`,
			expected: `int x = 1;`,
		},
		{
			name:     "hash comment trimmed",
			dialect:  dialect.BuildScript,
			input:    `set(X 1) # comment`,
			expected: `set(X 1)`,
		},
		{
			name:    "mixed c file",
			dialect: dialect.CFamily,
			input: `/* License
 * header */
#include <stdio.h> // io

int main(void) {
	puts("// hi /* there */"); /* greet */
	return 0; // done
}
`,
			expected: `
#include <stdio.h>

int main(void) {
	puts("// hi /* there */");
	return 0;
}
`,
		},
		{
			name:    "cmake lists",
			dialect: dialect.BuildScript,
			input: `# Top level
cmake_minimum_required(VERSION 3.20) # min
set(FLAGS "-DX=\"#\"")
`,
			expected: `
cmake_minimum_required(VERSION 3.20)
set(FLAGS "-DX=\"#\"")
`,
		},
		{
			name:     "unrecognized dialect untouched",
			dialect:  dialect.None,
			input:    "x = 1 # trailing  \n// also  \n",
			expected: "x = 1 # trailing  \n// also  \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Apply(tt.dialect, tt.input)
			if result != tt.expected {
				t.Errorf("Apply(%v) = %q, want %q", tt.dialect, result, tt.expected)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	tests := []struct {
		name    string
		dialect dialect.Dialect
		input   string
	}{
		{"c line comments", dialect.CFamily, "a(); // x\nb(); // y\n"},
		{"c block comments", dialect.CFamily, "/* a\n b */ int x; /* c */ int y;\n"},
		{"c literals", dialect.CFamily, "s = \"/* x */\"; c = '/'; // z\n"},
		{"c unterminated", dialect.CFamily, "a(); /* open\nb();\n"},
		{"cmake comments", dialect.BuildScript, "# a\nset(X 1) # b\nset(Y \"#c\")\n"},
		{"cmake crlf", dialect.BuildScript, "set(X 1) # b\r\n# c\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Apply(tt.dialect, tt.input)
			twice := Apply(tt.dialect, once)
			if once != twice {
				t.Errorf("Apply not idempotent:\n once = %q\ntwice = %q", once, twice)
			}
		})
	}
}
