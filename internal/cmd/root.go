// Package cmd wires the linegrep command-line interface: argument
// parsing, configuration merging, and assembly of the pool, walker, and
// collaborators for one run.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/linegrep/internal/config"
	"github.com/harrison/linegrep/internal/display"
	"github.com/harrison/linegrep/internal/gitignore"
	"github.com/harrison/linegrep/internal/history"
	"github.com/harrison/linegrep/internal/logger"
	"github.com/harrison/linegrep/internal/pool"
	"github.com/harrison/linegrep/internal/search"
	"github.com/harrison/linegrep/internal/walker"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ExitError carries a process exit code alongside the underlying error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code:
// 0 on success, the carried code for an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// searchOptions holds the flag values for the root command.
type searchOptions struct {
	ignoreCase bool
	hidden     bool
	noIgnore   bool
	noColor    bool
	workers    int
	logLevel   string
}

// NewRootCommand creates and returns the root cobra command for linegrep
func NewRootCommand() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "linegrep <query> [path]",
		Short: "Concurrent literal text search across files and directories",
		Long: `Linegrep scans a file or recursively walks a directory tree, printing
lines that contain the query string with every match highlighted.

Hidden files are skipped unless --hidden is given, and paths excluded by
.gitignore files are skipped unless --no-ignore is given. Directory
searches run one job per file on a fixed-size worker pool, so the order
of printed file blocks is not deterministic.`,
		Version: Version,
		Args:    cobra.RangeArgs(1, 2),
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "match without regard to case")
	cmd.Flags().BoolVar(&opts.hidden, "hidden", false, "search hidden files and directories")
	cmd.Flags().BoolVar(&opts.noIgnore, "no-ignore", false, "search paths a .gitignore would exclude")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", config.DefaultWorkers, "number of search workers")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "diagnostic verbosity (trace, debug, info, warn, error)")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// runSearch performs one search: merge configuration, stat the root,
// then either search a single file directly or walk the tree through
// the worker pool.
func runSearch(cmd *cobra.Command, args []string, opts *searchOptions) error {
	fileCfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	// Precedence: flag > config file > built-in default.
	workers := fileCfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	logLevel := fileCfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		logLevel = opts.logLevel
	}
	hidden := fileCfg.Hidden || opts.hidden
	noIgnore := fileCfg.NoIgnore || opts.noIgnore

	target := "."
	if len(args) == 2 {
		target = args[1]
	}

	info, err := os.Stat(target)
	if err != nil {
		// Unreadable root is fatal before any work starts.
		return &ExitError{Code: 2, Err: fmt.Errorf("stat %s: %w", target, err)}
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", target, err)
	}

	root, err := os.Getwd()
	if err != nil {
		// Display falls back to absolute paths.
		root = ""
	}

	log := logger.NewConsoleLogger(os.Stderr, logLevel)
	colorEnabled := !opts.noColor && isatty.IsTerminal(os.Stdout.Fd())
	printer := display.NewPrinter(os.Stdout, colorEnabled)
	runner := search.NewRunner(printer, log)

	cfg := config.Search{
		Query:      args[0],
		TargetPath: abs,
		Root:       root,
		IgnoreCase: opts.ignoreCase,
		Hidden:     hidden,
		NoIgnore:   noIgnore,
	}

	rec := history.NewRecord(cfg, workers)

	if info.IsDir() {
		p := pool.New(workers)

		var ignorer walker.Ignorer
		if !noIgnore {
			ignorer = gitignore.NewEvaluator(abs)
		}

		w := walker.New(p, runner, ignorer, log)
		walkErr := w.Walk(cfg)

		// Close drains the queue: every submitted job finishes before
		// the process can exit.
		p.Close()

		if walkErr != nil {
			return walkErr
		}
	} else {
		runner.SearchFile(cfg)
	}

	rec.Duration = time.Since(rec.StartedAt)
	rec.FilesScanned, rec.FilesMatched = runner.Stats()
	recordHistory(fileCfg, log, rec)

	return nil
}

// recordHistory appends the run to the history store. Best-effort: every
// failure is downgraded to a warning.
func recordHistory(fileCfg *config.Config, log *logger.ConsoleLogger, rec history.Record) {
	if !fileCfg.History.Enabled {
		return
	}

	dbPath, err := fileCfg.History.DatabasePath()
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled for this run: %v", err))
		return
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled for this run: %v", err))
		return
	}
	defer store.Close()

	if err := store.Record(rec); err != nil {
		log.LogWarn(fmt.Sprintf("record history: %v", err))
	}
}
