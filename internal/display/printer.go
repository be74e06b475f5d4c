// Package display renders search results for the terminal: filename
// headers, line numbers, and highlighted match spans.
package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/harrison/linegrep/internal/search"
)

// Printer writes per-file result blocks to a single output writer.
// PrintFile is called concurrently from pool workers; each file's block
// is built off-lock and written under the mutex in one call, so blocks
// from parallel jobs never interleave mid-file.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	pathColor  *color.Color
	numColor   *color.Color
	matchColor *color.Color
}

// NewPrinter creates a Printer writing to out. When colorEnabled is
// false (output redirected, --no-color, NO_COLOR), results are rendered
// as plain text.
func NewPrinter(out io.Writer, colorEnabled bool) *Printer {
	p := &Printer{
		out:        out,
		pathColor:  color.New(color.FgMagenta),
		numColor:   color.New(color.FgYellow),
		matchColor: color.New(color.FgRed),
	}

	if !colorEnabled {
		p.pathColor.DisableColor()
		p.numColor.DisableColor()
		p.matchColor.DisableColor()
	}

	return p
}

// PrintFile renders one file's matches as a block: the display path on
// its own line, then one "  NN: line" row per matching line with every
// occurrence of the query highlighted, then a blank separator line.
//
// The query length determines the highlighted span at each match offset;
// for case-insensitive searches the offsets come from the lowercased
// view of the line, which is byte-identical in length for ASCII input.
func (p *Printer) PrintFile(path, root, query string, ignoreCase bool, matches []search.LineMatch) {
	if len(matches) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString(p.pathColor.Sprint(DisplayPath(path, root)))
	b.WriteByte('\n')

	for _, m := range matches {
		b.WriteString(fmt.Sprintf("%s: ", p.numColor.Sprintf("%4d", m.LineNumber+1)))
		b.WriteString(p.highlight(m.Line, m.Offsets, len(query)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Write([]byte(b.String()))
}

// highlight rebuilds line with each matched span rendered in the match
// color. Offsets are ascending and non-overlapping; spans are clamped to
// the line's length so a short final line can never slice out of range.
func (p *Printer) highlight(line string, offsets []int, spanLen int) string {
	var b strings.Builder
	prev := 0

	for _, off := range offsets {
		if off < prev || off >= len(line) {
			continue
		}
		end := off + spanLen
		if end > len(line) {
			end = len(line)
		}
		b.WriteString(line[prev:off])
		b.WriteString(p.matchColor.Sprint(line[off:end]))
		prev = end
	}
	b.WriteString(line[prev:])

	return b.String()
}

// DisplayPath shortens path relative to the invocation root when the
// path sits underneath it. Failure to produce a relative form is
// non-fatal: the absolute path is shown instead.
func DisplayPath(path, root string) string {
	if root == "" {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
