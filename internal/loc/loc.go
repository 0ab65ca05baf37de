// Package loc counts source lines across a tree.
package loc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"decomment/internal/walk"
)

// Extensions counted by default.
var Extensions = []string{".cc", ".c", ".h", ".hh", ".py", ".in", ".pyi"}

type Summary struct {
	Files int `json:"files" yaml:"files"`
	Lines int `json:"lines" yaml:"lines"`
}

type Options struct {
	Extensions []string
	Skip       walk.Predicate
	// OnError is called for a file that could not be read. The file still
	// counts, with zero lines.
	OnError func(path string, err error)
}

// Count walks root and totals the lines of every file with a counted
// extension. Only a failure to access root is returned as an error.
func Count(root string, opts Options) (Summary, error) {
	exts := opts.Extensions
	if exts == nil {
		exts = Extensions
	}
	counted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		counted[ext] = struct{}{}
	}

	var sum Summary
	for path, err := range walk.Files(root, opts.Skip) {
		if err != nil {
			if errors.Is(err, walk.ErrRoot) {
				return sum, err
			}
			if opts.OnError != nil {
				opts.OnError(path, err)
			}
			continue
		}
		if _, ok := counted[filepath.Ext(path)]; !ok {
			continue
		}

		sum.Files++
		data, err := os.ReadFile(path)
		if err != nil {
			if opts.OnError != nil {
				opts.OnError(path, err)
			}
			continue
		}
		sum.Lines += Lines(data)
	}
	return sum, nil
}

// Lines returns the number of lines in data. A final line without a
// terminating newline still counts.
func Lines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}
