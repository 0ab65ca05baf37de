package dialect

import (
	"path/filepath"
	"strings"
)

// Dialect names the comment syntax a file is written in.
type Dialect int

const (
	None Dialect = iota
	CFamily
	BuildScript
)

func (d Dialect) String() string {
	switch d {
	case CFamily:
		return "c-family"
	case BuildScript:
		return "build-script"
	default:
		return "none"
	}
}

var cFamilyExts = map[string]struct{}{
	".c":   {},
	".cc":  {},
	".cpp": {},
	".h":   {},
	".hh":  {},
	".hpp": {},
	".cxx": {},
}

// Classify maps a file name or path to its dialect. Only the base name is
// inspected; extension matching ignores case, the CMakeLists.txt match does not.
func Classify(name string) Dialect {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	// A leading dot names a hidden file, not an extension.
	if ext == strings.ToLower(base) {
		ext = ""
	}

	if _, ok := cFamilyExts[ext]; ok {
		return CFamily
	}
	if ext == ".cmake" || base == "CMakeLists.txt" {
		return BuildScript
	}
	return None
}
