package search

import (
	"bytes"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/harrison/linegrep/internal/config"
)

// binarySniffLen bounds how far into a file the binary-content check
// looks. Matches git's heuristic of sniffing the leading block for NUL.
const binarySniffLen = 8000

// Printer renders the matches found in one file. Implementations must be
// safe for concurrent use, since runners execute on pool workers.
type Printer interface {
	PrintFile(path, root, query string, ignoreCase bool, matches []LineMatch)
}

// Logger receives diagnostics for entry-local failures.
type Logger interface {
	LogError(message string)
}

// Runner executes single-file searches. One Runner is shared by every
// job of a run; its counters feed the run's history record.
type Runner struct {
	printer Printer
	log     Logger

	scanned int64
	matched int64
}

// NewRunner creates a Runner that prints through printer and reports
// read failures through log.
func NewRunner(printer Printer, log Logger) *Runner {
	return &Runner{
		printer: printer,
		log:     log,
	}
}

// SearchFile reads the file named by cfg.TargetPath, matches it against
// cfg.Query, and prints any results.
//
// Failure containment follows the job-local policy: an unreadable file
// is reported to the diagnostic logger and skipped; a file that is not
// text is skipped silently, since binary content is an expected
// non-error outcome, not an I/O failure. Neither case propagates to the
// caller — SearchFile is the body of a fire-and-forget job.
func (r *Runner) SearchFile(cfg config.Search) {
	atomic.AddInt64(&r.scanned, 1)

	data, err := os.ReadFile(cfg.TargetPath)
	if err != nil {
		if r.log != nil {
			r.log.LogError(fmt.Sprintf("read %s: %v", cfg.TargetPath, err))
		}
		return
	}

	if isBinary(data) {
		return
	}

	matches := Match(cfg.Query, cfg.IgnoreCase, string(data))
	if len(matches) == 0 {
		return
	}

	atomic.AddInt64(&r.matched, 1)
	if r.printer != nil {
		r.printer.PrintFile(cfg.TargetPath, cfg.Root, cfg.Query, cfg.IgnoreCase, matches)
	}
}

// Stats returns the number of files scanned and the number that produced
// at least one match. Safe to call once the pool has been closed.
func (r *Runner) Stats() (scanned, matched int64) {
	return atomic.LoadInt64(&r.scanned), atomic.LoadInt64(&r.matched)
}

// isBinary reports whether data looks like binary content rather than
// text, using the presence of a NUL byte in the leading block.
func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
