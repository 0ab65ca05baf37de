// Package config loads the optional .decomment.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"decomment/internal/walk"
)

const FileName = ".decomment.toml"

// Config holds settings shared by the CLI and the project file. Flags given on
// the command line override file values.
type Config struct {
	// Exclude replaces the default set of skipped directory names.
	Exclude      []string `toml:"exclude"`
	ExcludeGlobs []string `toml:"exclude_globs"`
	Jobs         int      `toml:"jobs"`
	Cache        *bool    `toml:"cache"`
	Report       string   `toml:"report"`
}

// Default returns the settings used when no project file exists.
func Default() Config {
	enabled := true
	return Config{
		Exclude: append([]string(nil), walk.StripExcludes...),
		Jobs:    1,
		Cache:   &enabled,
	}
}

// Load reads path and merges it over Default. When required is false a
// missing file is not an error.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("exclude") {
		cfg.Exclude = file.Exclude
	}
	if meta.IsDefined("exclude_globs") {
		cfg.ExcludeGlobs = file.ExcludeGlobs
	}
	if meta.IsDefined("jobs") {
		if file.Jobs < 1 {
			return Config{}, fmt.Errorf("%s: jobs must be at least 1, got %d", path, file.Jobs)
		}
		cfg.Jobs = file.Jobs
	}
	if meta.IsDefined("cache") {
		cfg.Cache = file.Cache
	}
	if meta.IsDefined("report") {
		cfg.Report = file.Report
	}
	return cfg, nil
}

// Locate returns the project file path for root: explicit if set, otherwise
// FileName inside root (or next to root when root is a file).
func Locate(root, explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		dir = filepath.Dir(root)
	}
	return filepath.Join(dir, FileName)
}

// CacheEnabled reports whether the strip cache is on.
func (c Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// Skip builds the traversal predicate from the exclusion settings.
func (c Config) Skip() (walk.Predicate, error) {
	globs, err := walk.ExcludeGlobs(c.ExcludeGlobs...)
	if err != nil {
		return nil, err
	}
	return walk.Any(walk.ExcludeNames(c.Exclude...), globs), nil
}
