package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"decomment/internal/walk"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadMissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName), false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.Exclude, walk.StripExcludes) {
		t.Errorf("Exclude = %v, want %v", cfg.Exclude, walk.StripExcludes)
	}
	if cfg.Jobs != 1 || !cfg.CacheEnabled() {
		t.Errorf("defaults = %+v, want jobs 1 and cache on", cfg)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "custom.toml"), true); err == nil {
		t.Error("Load() error = nil for missing required file")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name:    "exclude replaces defaults",
			content: `exclude = ["third_party", ".git"]`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.Exclude, []string{"third_party", ".git"}) {
					t.Errorf("Exclude = %v", cfg.Exclude)
				}
			},
		},
		{
			name: "all keys",
			content: `exclude_globs = ["**/*_generated.h"]
jobs = 4
cache = false
report = "strip-report.yaml"
`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.ExcludeGlobs, []string{"**/*_generated.h"}) {
					t.Errorf("ExcludeGlobs = %v", cfg.ExcludeGlobs)
				}
				if cfg.Jobs != 4 {
					t.Errorf("Jobs = %d, want 4", cfg.Jobs)
				}
				if cfg.CacheEnabled() {
					t.Error("CacheEnabled() = true, want false")
				}
				if cfg.Report != "strip-report.yaml" {
					t.Errorf("Report = %q", cfg.Report)
				}
				if !slices.Equal(cfg.Exclude, walk.StripExcludes) {
					t.Errorf("Exclude = %v, want defaults", cfg.Exclude)
				}
			},
		},
		{
			name:    "unknown key rejected",
			content: "excludes = [\"build\"]\n",
			wantErr: "unknown keys: excludes",
		},
		{
			name:    "invalid jobs",
			content: "jobs = 0\n",
			wantErr: "jobs must be at least 1",
		},
		{
			name:    "malformed toml",
			content: "exclude = [\n",
			wantErr: "failed to parse TOML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content), true)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestSkip(t *testing.T) {
	cfg := Default()
	cfg.ExcludeGlobs = []string{"gen/**"}

	skip, err := cfg.Skip()
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}

	tests := []struct {
		rel      string
		isDir    bool
		expected bool
	}{
		{"build", true, true},
		{"src/assets", true, true},
		{"src", true, false},
		{"gen/a.c", false, true},
		{"src/a.c", false, false},
	}
	for _, tt := range tests {
		if got := skip(tt.rel, tt.isDir); got != tt.expected {
			t.Errorf("skip(%q, %v) = %v, want %v", tt.rel, tt.isDir, got, tt.expected)
		}
	}
}

func TestSkipInvalidGlob(t *testing.T) {
	cfg := Default()
	cfg.ExcludeGlobs = []string{"[oops"}
	if _, err := cfg.Skip(); err == nil {
		t.Error("Skip() error = nil, want invalid pattern error")
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	if got := Locate(dir, ""); got != filepath.Join(dir, FileName) {
		t.Errorf("Locate(dir) = %q", got)
	}
	if got := Locate(dir, "x.toml"); got != "x.toml" {
		t.Errorf("Locate(explicit) = %q", got)
	}

	file := filepath.Join(dir, "a.c")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if got := Locate(file, ""); got != filepath.Join(dir, FileName) {
		t.Errorf("Locate(file) = %q", got)
	}
}
