// Package cache remembers when each file was last stripped so unchanged
// files can be skipped on the next run.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const FileName = ".decomment-cache.json"

type FileCache struct {
	ProcessedFiles map[string]time.Time `json:"processed_files"`

	base string
	mu   sync.Mutex
}

// Load reads the cache stored in base. A missing cache file yields an empty
// cache.
func Load(base string) (*FileCache, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache base: %w", err)
	}

	c := &FileCache{
		ProcessedFiles: make(map[string]time.Time),
		base:           absBase,
	}

	data, err := os.ReadFile(c.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if c.ProcessedFiles == nil {
		c.ProcessedFiles = make(map[string]time.Time)
	}
	return c, nil
}

func (c *FileCache) Path() string {
	return filepath.Join(c.base, FileName)
}

func (c *FileCache) Save() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.Path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// ShouldProcess reports whether filePath was modified after it was last
// processed, or was never processed at all.
func (c *FileCache) ShouldProcess(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := c.relative(filePath)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	lastProcessed, exists := c.ProcessedFiles[relPath]
	c.mu.Unlock()
	if !exists {
		return true, nil
	}
	return info.ModTime().After(lastProcessed), nil
}

// MarkProcessed records the file's modification time, not the current time,
// so a later touch without a content change still counts as a change.
func (c *FileCache) MarkProcessed(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := c.relative(filePath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.ProcessedFiles[relPath] = info.ModTime()
	c.mu.Unlock()
	return nil
}

// relative keys entries by base-relative, slash-separated paths so the cache
// stays valid when the tree is moved.
func (c *FileCache) relative(filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	rel, err := filepath.Rel(c.base, abs)
	if err != nil {
		return "", fmt.Errorf("failed to make path relative: %w", err)
	}
	return filepath.ToSlash(rel), nil
}
