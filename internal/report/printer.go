package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"decomment/internal/rewrite"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	boldColor = color.New(color.Bold)
)

// SetColorMode applies the --color flag: auto, on or off.
func SetColorMode(mode string, out *os.File) error {
	switch mode {
	case "auto", "":
		color.NoColor = !term.IsTerminal(int(out.Fd()))
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}

// Printer writes progress lines to out and problems to errOut. Lines from
// concurrent workers are not interleaved but their order is not fixed.
type Printer struct {
	Out     io.Writer
	ErrOut  io.Writer
	Quiet   bool
	Verbose bool

	mu sync.Mutex
}

func NewPrinter(quiet, verbose bool) *Printer {
	return &Printer{Out: os.Stdout, ErrOut: os.Stderr, Quiet: quiet, Verbose: verbose}
}

// File reports the outcome of one file.
func (p *Printer) File(res rewrite.Result, err error, dryRun bool) {
	if err != nil {
		p.Warnf("failed to process %s: %v", res.Path, unwrapFileError(err))
		return
	}
	if p.Quiet {
		return
	}

	switch res.Outcome {
	case rewrite.Rewritten:
		if dryRun {
			p.printf(okColor, "Would remove comments from: %s\n", res.Path)
		} else {
			p.printf(okColor, "Removed comments from: %s\n", res.Path)
		}
	case rewrite.Unchanged:
		if p.Verbose {
			p.printf(dimColor, "No comments in: %s\n", res.Path)
		}
	case rewrite.Unsupported:
		if p.Verbose {
			p.printf(dimColor, "Skipping (unsupported): %s\n", res.Path)
		}
	case rewrite.Cached:
		if p.Verbose {
			p.printf(dimColor, "Skipping (unchanged): %s\n", res.Path)
		}
	}
}

func (p *Printer) Infof(format string, args ...any) {
	if p.Quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.Out, format+"\n", args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	warnColor.Fprint(p.ErrOut, "Warning: ")
	fmt.Fprintf(p.ErrOut, format+"\n", args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	errColor.Fprint(p.ErrOut, "Error: ")
	fmt.Fprintf(p.ErrOut, format+"\n", args...)
}

// Summary prints the run totals followed by every failed file.
func (p *Printer) Summary(s *Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !p.Quiet {
		verb := "Removed comments from"
		if s.DryRun {
			verb = "Would remove comments from"
		}
		p.printf(boldColor, "\n%s %d file(s)", verb, s.Rewritten)
		p.mu.Lock()
		fmt.Fprintf(p.Out, ": %d unchanged, %d unsupported, %d cached, %d failed (%s)\n",
			s.Unchanged, s.Unsupported, s.Cached, s.Failed, s.Duration)
		p.mu.Unlock()
	}

	if len(s.Failures) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	errColor.Fprintf(p.ErrOut, "%d file(s) failed:\n", len(s.Failures))
	for _, f := range s.Failures {
		fmt.Fprintf(p.ErrOut, "  %s [%s]: %s\n", f.Path, f.Kind, f.Error)
	}
}

func (p *Printer) printf(c *color.Color, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.Fprintf(p.Out, format, args...)
}

func unwrapFileError(err error) error {
	var fe *rewrite.FileError
	if errors.As(err, &fe) {
		return fmt.Errorf("%s error: %w", fe.Kind, fe.Err)
	}
	return err
}
