// Package search implements the line-matching routine and the per-file
// search job executed by pool workers.
package search

import "strings"

// LineMatch records every occurrence of the query on a single line.
type LineMatch struct {
	// LineNumber is the 0-based index of the line within the file.
	// Display layers add 1 before printing.
	LineNumber int

	// Line is the full text of the line, without its trailing newline.
	Line string

	// Offsets holds the byte offset of each non-overlapping occurrence
	// of the query within Line, in ascending order.
	Offsets []int
}

// Match scans text line by line for literal occurrences of query and
// returns one LineMatch per line that contains at least one occurrence.
// When ignoreCase is set, matching is performed on a lowercased view of
// the line; offsets refer to that lowercased view.
//
// Match is pure: it has no side effects and may be called from any
// number of goroutines.
func Match(query string, ignoreCase bool, text string) []LineMatch {
	if query == "" {
		return nil
	}

	needle := query
	if ignoreCase {
		needle = strings.ToLower(query)
	}

	var results []LineMatch
	for num, line := range splitLines(text) {
		haystack := line
		if ignoreCase {
			haystack = strings.ToLower(line)
		}

		offsets := indexAll(haystack, needle)
		if len(offsets) == 0 {
			continue
		}

		results = append(results, LineMatch{
			LineNumber: num,
			Line:       line,
			Offsets:    offsets,
		})
	}

	return results
}

// indexAll returns the byte offsets of every non-overlapping occurrence
// of needle in haystack, in ascending order.
func indexAll(haystack, needle string) []int {
	var offsets []int
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return offsets
		}
		offsets = append(offsets, from+i)
		from += i + len(needle)
	}
}

// splitLines splits text on newlines, tolerating CRLF endings and
// dropping the empty fragment a trailing newline would otherwise
// produce.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
