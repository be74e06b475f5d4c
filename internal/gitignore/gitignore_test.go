package gitignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGitignore(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0644))
}

func TestIsIgnoredBasicPatterns(t *testing.T) {
	root := t.TempDir()
	writeGitignore(t, root, "*.log\nbuild/\n")

	e := NewEvaluator(root)

	assert.True(t, e.IsIgnored(filepath.Join(root, "debug.log"), false))
	assert.True(t, e.IsIgnored(filepath.Join(root, "sub", "deep.log"), false))
	assert.False(t, e.IsIgnored(filepath.Join(root, "main.go"), false))

	// "build/" is directory-only.
	assert.True(t, e.IsIgnored(filepath.Join(root, "build"), true))
	assert.False(t, e.IsIgnored(filepath.Join(root, "build"), false))
}

func TestIsIgnoredNegation(t *testing.T) {
	root := t.TempDir()
	writeGitignore(t, root, "*.log\n!keep.log\n")

	e := NewEvaluator(root)

	assert.True(t, e.IsIgnored(filepath.Join(root, "debug.log"), false))
	assert.False(t, e.IsIgnored(filepath.Join(root, "keep.log"), false))
}

func TestIsIgnoredNestedFileWins(t *testing.T) {
	root := t.TempDir()
	writeGitignore(t, root, "*.log\n")
	writeGitignore(t, filepath.Join(root, "sub"), "!debug.log\n")

	e := NewEvaluator(root)

	// The root rule excludes logs everywhere; the deeper negation
	// re-includes this one.
	assert.True(t, e.IsIgnored(filepath.Join(root, "debug.log"), false))
	assert.False(t, e.IsIgnored(filepath.Join(root, "sub", "debug.log"), false))
}

func TestIsIgnoredGitDirAlways(t *testing.T) {
	root := t.TempDir()

	e := NewEvaluator(root)

	// No .gitignore anywhere; .git is still skipped.
	assert.True(t, e.IsIgnored(filepath.Join(root, ".git"), true))
	assert.False(t, e.IsIgnored(filepath.Join(root, ".gitmodules"), false))
}

func TestIsIgnoredWithoutGitignoreFiles(t *testing.T) {
	root := t.TempDir()

	e := NewEvaluator(root)

	assert.False(t, e.IsIgnored(filepath.Join(root, "anything.txt"), false))
	assert.False(t, e.IsIgnored(filepath.Join(root, "dir"), true))
}

func TestIsIgnoredOutsideRoot(t *testing.T) {
	root := t.TempDir()
	writeGitignore(t, root, "*\n")

	e := NewEvaluator(root)

	// Paths not under the evaluator's root are never the evaluator's
	// business.
	assert.False(t, e.IsIgnored(filepath.Join(t.TempDir(), "other.txt"), false))
	assert.False(t, e.IsIgnored(root, true))
}

func TestMatcherCachePerDirectory(t *testing.T) {
	root := t.TempDir()
	writeGitignore(t, root, "*.log\n")

	e := NewEvaluator(root)

	assert.True(t, e.IsIgnored(filepath.Join(root, "a.log"), false))

	// Rewrite the .gitignore; the cached matcher from the first query
	// must keep answering for this walk.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(""), 0644))
	assert.True(t, e.IsIgnored(filepath.Join(root, "b.log"), false))
}
