// Package report aggregates per-file outcomes of a run and presents them.
package report

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"decomment/internal/rewrite"
)

type Failure struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
}

// Summary collects the outcome of every file in a run. Record is safe for
// concurrent use.
type Summary struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Root     string    `json:"root" yaml:"root"`
	DryRun   bool      `json:"dry_run" yaml:"dry_run"`
	Started  time.Time `json:"started" yaml:"started"`
	Duration string    `json:"duration" yaml:"duration"`

	Rewritten   int `json:"rewritten" yaml:"rewritten"`
	Unchanged   int `json:"unchanged" yaml:"unchanged"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
	Cached      int `json:"cached" yaml:"cached"`
	Failed      int `json:"failed" yaml:"failed"`

	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`

	mu sync.Mutex
}

func NewSummary(root string, dryRun bool) (*Summary, error) {
	started := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(started), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	return &Summary{
		RunID:   id.String(),
		Root:    root,
		DryRun:  dryRun,
		Started: started,
	}, nil
}

// Record adds one file's outcome. err, when set, is the file-level failure.
func (s *Summary) Record(res rewrite.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.Failed++
		f := Failure{Path: res.Path, Error: err.Error()}
		var fileErr *rewrite.FileError
		if errors.As(err, &fileErr) {
			f.Kind = string(fileErr.Kind)
			f.Error = fileErr.Err.Error()
		} else {
			f.Kind = string(rewrite.KindIO)
		}
		s.Failures = append(s.Failures, f)
		return
	}

	switch res.Outcome {
	case rewrite.Rewritten:
		s.Rewritten++
	case rewrite.Unchanged:
		s.Unchanged++
	case rewrite.Unsupported:
		s.Unsupported++
	case rewrite.Cached:
		s.Cached++
	case rewrite.Failed:
		s.Failed++
	}
}

// Finish stamps the duration and orders failures by path, since workers may
// record them in any order.
func (s *Summary) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Duration = time.Since(s.Started).Round(time.Millisecond).String()
	sort.Slice(s.Failures, func(i, j int) bool {
		return s.Failures[i].Path < s.Failures[j].Path
	})
}

func (s *Summary) HasFailures() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Failed > 0
}

// Total is the number of files recorded.
func (s *Summary) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Rewritten + s.Unchanged + s.Unsupported + s.Cached + s.Failed
}

// WriteFile stores the summary as YAML or JSON, chosen by the extension of path.
func (s *Summary) WriteFile(path string) error {
	s.mu.Lock()
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		err = fmt.Errorf("unsupported report format %q (use .yaml, .yml or .json)", filepath.Ext(path))
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
