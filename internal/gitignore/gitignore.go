// Package gitignore evaluates gitignore rules for paths under a walk
// root, consulting every .gitignore file between the root and the path.
package gitignore

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Evaluator answers ignore queries for one walk. Compiled .gitignore
// files are cached per directory; directories without one cache a nil
// matcher so the stat is not repeated.
//
// An Evaluator is NOT safe for concurrent use. The walker is
// single-threaded, so each walk owns exactly one Evaluator.
type Evaluator struct {
	root     string
	matchers map[string]*ignore.GitIgnore
}

// NewEvaluator creates an Evaluator rooted at the given absolute
// directory.
func NewEvaluator(root string) *Evaluator {
	return &Evaluator{
		root:     root,
		matchers: make(map[string]*ignore.GitIgnore),
	}
}

// IsIgnored reports whether the absolute path should be excluded from
// the walk. Rules are applied per git's precedence: every .gitignore
// from the root down to the path's parent is consulted, and the deepest
// file with a matching pattern wins, so negations (!pattern) in nested
// files can re-include paths a shallower file excluded.
//
// .git directories are always ignored regardless of rules.
func (e *Evaluator) IsIgnored(path string, isDir bool) bool {
	if isDir && filepath.Base(path) == ".git" {
		return true
	}

	rel, err := filepath.Rel(e.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}

	segments := strings.Split(rel, string(filepath.Separator))

	ignored := false
	dir := e.root
	for i := 0; i < len(segments); i++ {
		if m := e.matcherFor(dir); m != nil {
			probe := strings.Join(segments[i:], "/")
			if isDir {
				probe += "/"
			}
			if matches, pattern := m.MatchesPathHow(probe); pattern != nil {
				ignored = matches
			}
		}
		dir = filepath.Join(dir, segments[i])
	}

	return ignored
}

// matcherFor returns the compiled .gitignore for dir, loading and
// caching it on first use. A missing or unreadable file yields a nil
// matcher, which IsIgnored treats as "no rules here".
func (e *Evaluator) matcherFor(dir string) *ignore.GitIgnore {
	if m, ok := e.matchers[dir]; ok {
		return m
	}

	m, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		m = nil
	}
	e.matchers[dir] = m
	return m
}
