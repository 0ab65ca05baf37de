package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// findGitRoot walks up from the working directory to the repository root.
// Staged paths reported by git are relative to it.
func findGitRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a git repository")
		}
		dir = parent
	}
}

// isGitIgnored checks if a file is ignored by git using git check-ignore.
// This respects all .gitignore files in the repository hierarchy.
func isGitIgnored(filePath string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", filepath.Base(filePath))
	cmd.Dir = filepath.Dir(filePath)
	// check-ignore returns 0 if file is ignored, 1 if not ignored
	return cmd.Run() == nil
}

// getStagedFiles returns the absolute paths of files staged in the repository
// at gitRoot. Deleted files are left out since there is nothing to rewrite.
func getStagedFiles(gitRoot string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--staged", "--name-only", "--diff-filter=ACMR")
	cmd.Dir = gitRoot
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}

	files := parseFileList(gitRoot, string(output))
	if len(files) == 0 {
		return nil, fmt.Errorf("no staged files found")
	}
	return files, nil
}

func parseFileList(base, output string) []string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	files := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, filepath.Join(base, filepath.FromSlash(line)))
		}
	}
	return files
}
