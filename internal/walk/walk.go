// Package walk produces the candidate files of a source tree.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// ErrRoot marks a failure to access the traversal root. It aborts the whole
// run; every other error yielded by Files concerns a single path.
var ErrRoot = errors.New("traversal root inaccessible")

// Files returns the regular files under root in lexical order. Directories
// for which skip reports true are not descended into, files for which it
// reports true are not yielded. The root itself is never skipped.
//
// The sequence is lazy and may be ranged over more than once; each range
// walks the tree again. Symbolic links are not followed or yielded, since
// rewriting through one would replace the link with a regular file.
func Files(root string, skip Predicate) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield(root, fmt.Errorf("%w: %w", ErrRoot, err))
			return
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				yield(root, nil)
			}
			return
		}

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					yield(root, fmt.Errorf("%w: %w", ErrRoot, err))
					return filepath.SkipAll
				}
				if !yield(path, err) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path == root {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if skip != nil && skip(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if skip != nil && skip(rel, false) {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
