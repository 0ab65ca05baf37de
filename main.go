package main

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"decomment/internal/cache"
	"decomment/internal/config"
	"decomment/internal/dialect"
	"decomment/internal/report"
	"decomment/internal/rewrite"
	"decomment/internal/walk"
)

var rootCmd = &cobra.Command{
	Use:   "decomment [flags] [root]",
	Short: "Strip comments from C-family and CMake sources in place",
	Long: `decomment walks a source tree and removes comments from C-family files
(.c .cc .cpp .h .hh .hpp .cxx) and CMake files (.cmake, CMakeLists.txt),
leaving string and character literals untouched. Other files are never modified.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupOutput,
	RunE:              runStrip,
}

// Config is the resolved configuration of one strip run.
type Config struct {
	Root string
	// Files, when non-nil, replaces the tree walk.
	Files        []string
	Skip         walk.Predicate
	Jobs         int
	DryRun       bool
	ForceProcess bool
	CacheOnly    bool
	UseCache     bool
	CacheBase    string
	GitIgnore    bool
	Report       string
}

var printer = report.NewPrinter(false, false)

func init() {
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	flags := rootCmd.Flags()
	flags.StringSlice("exclude", nil, "directory names to skip (replaces the default set)")
	flags.StringSlice("exclude-glob", nil, "doublestar patterns, relative to root, to skip")
	flags.IntP("jobs", "j", 0, "number of files processed in parallel")
	flags.String("config", "", "path to a TOML config file (default <root>/"+config.FileName+")")
	flags.String("report", "", "write a run report (.yaml or .json)")
	flags.Bool("dry-run", false, "report what would change without writing")
	flags.Bool("force", false, "force reprocessing of all files, ignoring cache")
	flags.Bool("no-cache", false, "do not read or update the strip cache")
	flags.Bool("cache-only", false, "mark files as cached without processing (useful for initialization)")
	flags.Bool("staged", false, "process only staged files from git")
	flags.Bool("gitignore", false, "skip files ignored by git")
	flags.BoolP("verbose", "v", false, "also list unchanged and skipped files")
}

func main() {
	rootCmd.Version = version
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		printer.Errorf("%v", err)
		os.Exit(1)
	}
}

func setupOutput(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	if err := report.SetColorMode(mode, os.Stdout); err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	printer.Quiet = quiet
	return nil
}

func runStrip(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	conf, err := resolveConfig(cmd, root)
	if err != nil {
		return err
	}
	if printer.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := run(ctx, conf)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) could not be processed", summary.Failed)
	}
	return nil
}

// resolveConfig merges the project file with command-line flags; flags win.
func resolveConfig(cmd *cobra.Command, root string) (Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	fileConf, err := config.Load(config.Locate(root, configPath), configPath != "")
	if err != nil {
		return Config{}, err
	}

	if flags.Changed("exclude") {
		if fileConf.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return Config{}, err
		}
	}
	globs, err := flags.GetStringSlice("exclude-glob")
	if err != nil {
		return Config{}, err
	}
	fileConf.ExcludeGlobs = append(fileConf.ExcludeGlobs, globs...)

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return Config{}, err
		}
		if jobs < 1 {
			return Config{}, fmt.Errorf("--jobs must be at least 1, got %d", jobs)
		}
		fileConf.Jobs = jobs
	}
	if flags.Changed("report") {
		if fileConf.Report, err = flags.GetString("report"); err != nil {
			return Config{}, err
		}
	}

	skip, err := fileConf.Skip()
	if err != nil {
		return Config{}, err
	}

	conf := Config{
		Root:      root,
		Skip:      skip,
		Jobs:      fileConf.Jobs,
		UseCache:  fileConf.CacheEnabled(),
		CacheBase: root,
		Report:    fileConf.Report,
	}
	for name, dst := range map[string]*bool{
		"dry-run":    &conf.DryRun,
		"force":      &conf.ForceProcess,
		"cache-only": &conf.CacheOnly,
		"gitignore":  &conf.GitIgnore,
	} {
		if *dst, err = flags.GetBool(name); err != nil {
			return Config{}, err
		}
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return Config{}, err
	}
	if noCache {
		conf.UseCache = false
	}
	if conf.CacheOnly && !conf.UseCache {
		return Config{}, fmt.Errorf("--cache-only cannot be combined with a disabled cache")
	}
	if conf.CacheOnly && conf.DryRun {
		return Config{}, fmt.Errorf("--cache-only and --dry-run are mutually exclusive")
	}

	staged, err := flags.GetBool("staged")
	if err != nil {
		return Config{}, err
	}
	if staged {
		gitRoot, err := findGitRoot()
		if err != nil {
			return Config{}, fmt.Errorf("--staged: %w", err)
		}
		files, err := getStagedFiles(gitRoot)
		if err != nil {
			return Config{}, err
		}
		conf.Root = gitRoot
		conf.CacheBase = gitRoot
		conf.Files = files
		printer.Infof("Found %d staged file(s)", len(files))
	}
	return conf, nil
}

// run strips every candidate file. File-level failures are recorded in the
// returned summary; only a traversal-level failure is returned as an error.
func run(ctx context.Context, conf Config) (*report.Summary, error) {
	summary, err := report.NewSummary(conf.Root, conf.DryRun)
	if err != nil {
		return nil, err
	}

	var fileCache *cache.FileCache
	if conf.UseCache {
		fileCache, err = cache.Load(conf.CacheBase)
		if err != nil {
			return nil, fmt.Errorf("failed to load cache: %w", err)
		}
	}

	rewriter := rewrite.New(rewrite.Options{DryRun: conf.DryRun})

	jobs := conf.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(jobs)

	var fatal error
	for path, err := range candidates(conf) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			fatal = fmt.Errorf("interrupted: %w", ctxErr)
			break
		}
		if err != nil {
			if errors.Is(err, walk.ErrRoot) {
				fatal = err
				break
			}
			// An unreadable directory inside the tree only loses that subtree.
			res := rewrite.Result{Path: path, Outcome: rewrite.Failed}
			fileErr := &rewrite.FileError{Path: path, Kind: rewrite.KindIO, Err: err}
			summary.Record(res, fileErr)
			printer.File(res, fileErr, conf.DryRun)
			continue
		}

		// Each path is handed to exactly one worker, so no file is touched twice.
		g.Go(func() error {
			processFile(path, conf, rewriter, fileCache, summary)
			return nil
		})
	}
	_ = g.Wait()

	if fatal != nil {
		return nil, fatal
	}

	// Cache save failures are warnings; the worst case is redundant work next run.
	if fileCache != nil && !conf.DryRun {
		if err := fileCache.Save(); err != nil {
			printer.Warnf("failed to save cache: %v", err)
		}
	}

	summary.Finish()
	printer.Summary(summary)

	if conf.Report != "" {
		if err := summary.WriteFile(conf.Report); err != nil {
			printer.Warnf("%v", err)
		}
	}
	return summary, nil
}

func processFile(path string, conf Config, rewriter *rewrite.Rewriter, fileCache *cache.FileCache, summary *report.Summary) {
	d := dialect.Classify(path)

	if d != dialect.None && conf.GitIgnore && isGitIgnored(path) {
		if printer.Verbose {
			printer.Infof("Skipping (gitignored): %s", path)
		}
		return
	}

	if d != dialect.None && fileCache != nil {
		if conf.CacheOnly {
			res := rewrite.Result{Path: path, Dialect: d, Outcome: rewrite.Cached}
			if err := fileCache.MarkProcessed(path); err != nil {
				fileErr := &rewrite.FileError{Path: path, Kind: rewrite.KindIO, Err: err}
				summary.Record(res, fileErr)
				printer.File(res, fileErr, conf.DryRun)
				return
			}
			summary.Record(res, nil)
			printer.Infof("Cached: %s", path)
			return
		}

		shouldProcess := conf.ForceProcess
		if !shouldProcess {
			var err error
			shouldProcess, err = fileCache.ShouldProcess(path)
			if err != nil {
				// On cache check failure, process anyway; the rewriter reports real I/O problems.
				printer.Warnf("failed to check cache for %s: %v", path, err)
				shouldProcess = true
			}
		}
		if !shouldProcess {
			res := rewrite.Result{Path: path, Dialect: d, Outcome: rewrite.Cached}
			summary.Record(res, nil)
			printer.File(res, nil, conf.DryRun)
			return
		}
	}

	res, err := rewriter.Rewrite(path)
	summary.Record(res, err)
	printer.File(res, err, conf.DryRun)

	if err != nil || fileCache == nil || conf.DryRun {
		return
	}
	if res.Outcome == rewrite.Rewritten || res.Outcome == rewrite.Unchanged {
		if err := fileCache.MarkProcessed(path); err != nil {
			printer.Warnf("failed to update cache for %s: %v", path, err)
		}
	}
}

// candidates yields the files of a run: the explicit list when set, the
// tree walk otherwise. Explicit files are filtered with the same predicate.
func candidates(conf Config) iter.Seq2[string, error] {
	if conf.Files == nil {
		return walk.Files(conf.Root, conf.Skip)
	}
	return func(yield func(string, error) bool) {
		for _, file := range conf.Files {
			if excluded(conf.Root, file, conf.Skip) {
				continue
			}
			if !yield(file, nil) {
				return
			}
		}
	}
}

// excluded applies skip to every directory component of file and then to
// file itself, mirroring what the tree walk would have pruned.
func excluded(root, file string, skip walk.Predicate) bool {
	if skip == nil {
		return false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for dir := pathDir(rel); dir != ""; dir = pathDir(dir) {
		if skip(dir, true) {
			return true
		}
	}
	return skip(rel, false)
}

func pathDir(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(rel)))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
