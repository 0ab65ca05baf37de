package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"decomment/internal/loc"
	"decomment/internal/walk"
)

var countCmd = &cobra.Command{
	Use:   "count [flags] [root]",
	Short: "Count source lines under a directory",
	Long:  "Count files and lines of C/C++ and Python sources, skipping build output and vendored code.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCount,
}

func init() {
	countCmd.Flags().StringSlice("exclude", walk.CountExcludes, "directory names to skip")
	countCmd.Flags().StringSlice("ext", loc.Extensions, "file extensions to count")
}

func runCount(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return err
	}
	exts, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return err
	}

	return countLines(cmd.OutOrStdout(), root, loc.Options{
		Extensions: exts,
		Skip:       walk.ExcludeNames(exclude...),
		OnError: func(path string, err error) {
			printer.Warnf("failed to read %s: %v", path, err)
		},
	})
}

func countLines(out io.Writer, root string, opts loc.Options) error {
	fmt.Fprintf(out, "Scanning project root: %s\n", root)

	sum, err := loc.Count(root, opts)
	if err != nil {
		return err
	}

	rule := strings.Repeat("-", 30)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Total files counted: %d\n", sum.Files)
	fmt.Fprintf(out, "Total lines of code: %d\n", sum.Lines)
	fmt.Fprintln(out, rule)
	return nil
}
