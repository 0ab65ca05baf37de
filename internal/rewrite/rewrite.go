// Package rewrite applies comment stripping to files on disk.
package rewrite

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"decomment/internal/dialect"
	"decomment/internal/strip"
)

// Outcome records what happened to one file.
type Outcome string

const (
	Rewritten   Outcome = "rewritten"
	Unchanged   Outcome = "unchanged"
	Unsupported Outcome = "unsupported"
	Cached      Outcome = "cached"
	Failed      Outcome = "failed"
)

type Result struct {
	Path    string
	Dialect dialect.Dialect
	Outcome Outcome
}

type Options struct {
	// DryRun computes the outcome without writing anything.
	DryRun bool
}

type Rewriter struct {
	dryRun bool
}

func New(opts Options) *Rewriter {
	return &Rewriter{dryRun: opts.DryRun}
}

// Rewrite strips comments from the file at path and writes the result back.
// Files whose dialect is not recognized are never opened. A returned error is
// always a *FileError and the file on disk is left as it was.
func (r *Rewriter) Rewrite(path string) (Result, error) {
	res := Result{Path: path, Dialect: dialect.Classify(path)}
	if res.Dialect == dialect.None {
		res.Outcome = Unsupported
		return res, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Outcome = Failed
		return res, ioError(path, fmt.Errorf("failed to read file: %w", err))
	}

	if _, _, err := transform.Bytes(encoding.UTF8Validator, content); err != nil {
		res.Outcome = Failed
		return res, decodeError(path, err)
	}

	cleaned := []byte(strip.Apply(res.Dialect, string(content)))
	if bytes.Equal(cleaned, content) {
		res.Outcome = Unchanged
		return res, nil
	}

	res.Outcome = Rewritten
	if r.dryRun {
		return res, nil
	}

	if err := writeAtomic(path, cleaned); err != nil {
		res.Outcome = Failed
		return res, ioError(path, err)
	}
	return res, nil
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, so a failure never leaves a partially written file behind.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".decomment-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
