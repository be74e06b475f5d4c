// Package walker drives a recursive directory traversal, filtering
// entries against hidden-file and gitignore policy and submitting one
// search job per qualifying regular file.
//
// The descent itself is synchronous and single-threaded; only the
// per-file search jobs run in parallel on the pool. The walker resolves
// every path to absolute form before a job is submitted, so no job ever
// depends on the process working directory.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/linegrep/internal/config"
	"github.com/harrison/linegrep/internal/pool"
)

// Submitter accepts fire-and-forget jobs for asynchronous execution.
// Satisfied by *pool.Pool.
type Submitter interface {
	Submit(job pool.Job) bool
}

// Searcher runs the single-file search for one configuration. Satisfied
// by *search.Runner.
type Searcher interface {
	SearchFile(cfg config.Search)
}

// Ignorer reports whether a path is excluded by ignore rules. Satisfied
// by *gitignore.Evaluator.
type Ignorer interface {
	IsIgnored(path string, isDir bool) bool
}

// Logger receives diagnostics for entries that could not be read.
type Logger interface {
	LogError(message string)
}

// Walker enumerates a directory tree and feeds file-search jobs to a
// pool. It is used from a single goroutine per walk.
type Walker struct {
	pool     Submitter
	searcher Searcher
	ignore   Ignorer // nil disables ignore-rule consultation
	log      Logger

	submitted int
}

// New creates a Walker. ignore may be nil, in which case no ignore-rule
// filtering takes place (the --no-ignore path).
func New(p Submitter, searcher Searcher, ignore Ignorer, log Logger) *Walker {
	return &Walker{
		pool:     p,
		searcher: searcher,
		ignore:   ignore,
		log:      log,
	}
}

// fileJob is the unit of work handed to the pool: a configuration whose
// target path was fully resolved by the walker at submission time. The
// job body performs no path resolution of its own, so it is immune to
// anything that happens to the process working directory afterwards.
type fileJob struct {
	cfg      config.Search
	searcher Searcher
}

func (j fileJob) run() {
	j.searcher.SearchFile(j.cfg)
}

// Walk recursively descends cfg.TargetPath. It returns once every entry
// at every level has been visited; it does NOT wait for the submitted
// jobs, which complete asynchronously. The caller must close the pool
// afterwards to ensure no job is abandoned mid-flight.
//
// Unreadable directories and entries are reported to the logger and
// skipped; they never abort the walk.
func (w *Walker) Walk(cfg config.Search) error {
	abs, err := filepath.Abs(cfg.TargetPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", cfg.TargetPath, err)
	}

	cfg.TargetPath = abs
	w.walkDir(cfg)
	return nil
}

// walkDir processes one directory level. cfg.TargetPath is absolute.
func (w *Walker) walkDir(cfg config.Search) {
	entries, err := os.ReadDir(cfg.TargetPath)
	if err != nil {
		w.logError(fmt.Sprintf("read directory %s: %v", cfg.TargetPath, err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()

		// Hidden-file policy applies regardless of the ignore override.
		if strings.HasPrefix(name, ".") && !cfg.Hidden {
			continue
		}

		path := filepath.Join(cfg.TargetPath, name)
		isDir := entry.IsDir()

		if !cfg.NoIgnore && w.ignore != nil && w.ignore.IsIgnored(path, isDir) {
			continue
		}

		if isDir {
			sub := cfg
			sub.TargetPath = path
			w.walkDir(sub)
			continue
		}

		if !entry.Type().IsRegular() {
			// Sockets, devices, symlinks: nothing to search.
			continue
		}

		// The job captures its own copy of the configuration with the
		// file's absolute path bound before the walk moves on. This is
		// the load-bearing invariant: resolution happens here, in the
		// synchronous walk, never inside the asynchronous job body.
		jobCfg := cfg
		jobCfg.TargetPath = path
		job := fileJob{cfg: jobCfg, searcher: w.searcher}
		if w.pool.Submit(job.run) {
			w.submitted++
		}
	}
}

// Submitted returns how many jobs the walker handed to the pool.
func (w *Walker) Submitted() int {
	return w.submitted
}

func (w *Walker) logError(message string) {
	if w.log != nil {
		w.log.LogError(message)
	}
}
