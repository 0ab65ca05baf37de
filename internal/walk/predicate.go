package walk

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate reports whether the entry at rel (slash-separated, relative to
// the traversal root) should be left out of the walk.
type Predicate func(rel string, isDir bool) bool

// Directory names skipped by default.
var (
	StripExcludes = []string{"build", "extern", ".git", "assets"}
	CountExcludes = []string{".git", "extern", "build", ".cache"}
)

// ExcludeNames skips directories whose base name equals one of names.
func ExcludeNames(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return func(rel string, isDir bool) bool {
		if !isDir {
			return false
		}
		_, ok := set[path.Base(rel)]
		return ok
	}
}

// ExcludeGlobs skips files and directories whose relative path matches one
// of the doublestar patterns, e.g. "third_party/**" or "**/*_generated.h".
func ExcludeGlobs(patterns ...string) (Predicate, error) {
	globs := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		globs = append(globs, pattern)
	}
	return func(rel string, _ bool) bool {
		for _, glob := range globs {
			if ok, _ := doublestar.Match(glob, rel); ok {
				return true
			}
		}
		return false
	}, nil
}

// Any skips an entry when at least one of preds does. Nil predicates are ignored.
func Any(preds ...Predicate) Predicate {
	return func(rel string, isDir bool) bool {
		for _, p := range preds {
			if p != nil && p(rel, isDir) {
				return true
			}
		}
		return false
	}
}
