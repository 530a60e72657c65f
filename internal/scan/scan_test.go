package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative, slash-separated) below root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("# x\n"), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestScan_DefaultRootsInOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"docs/development/coding-standards.md",
		"docs/templates/adr-template.md",
		"docs/api/api-specification.md",
		"docs/other/ignored.md",
		"README.md",
	)
	got := rel(t, root, Scanner{}.Scan(root))
	assert.Equal(t, []string{
		"docs/templates/adr-template.md",
		"docs/api/api-specification.md",
		"docs/development/coding-standards.md",
	}, got)
}

func TestScan_LexicalPreOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"docs/architecture/c.md",
		"docs/architecture/a.md",
		"docs/architecture/b/z.md",
		"docs/architecture/b/deeper/y.md",
		"docs/architecture/b/x.md",
	)
	got := rel(t, root, Scanner{Roots: []string{"docs/architecture"}}.Scan(root))
	assert.Equal(t, []string{
		"docs/architecture/a.md",
		"docs/architecture/b/deeper/y.md",
		"docs/architecture/b/x.md",
		"docs/architecture/b/z.md",
		"docs/architecture/c.md",
	}, got)
}

func TestScan_OnlyMarkdown(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"docs/api/spec.md",
		"docs/api/upper.MD",
		"docs/api/notes.txt",
		"docs/api/readme.markdown",
	)
	got := rel(t, root, Scanner{}.Scan(root))
	assert.Equal(t, []string{"docs/api/spec.md"}, got)
}

func TestScan_MissingRootsSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "docs/user-guides/user-manual.md")
	got := rel(t, root, Scanner{Roots: []string{"nope", "docs/user-guides", "also/missing"}}.Scan(root))
	assert.Equal(t, []string{"docs/user-guides/user-manual.md"}, got)
}

func TestScan_Empty(t *testing.T) {
	assert.Empty(t, Scanner{}.Scan(t.TempDir()))
}

func TestDefaultRoots_ReturnsCopy(t *testing.T) {
	roots := DefaultRoots()
	require.Len(t, roots, 5)
	assert.Equal(t, "docs/templates", roots[0])

	roots[0] = "elsewhere"
	assert.Equal(t, "docs/templates", DefaultRoots()[0])

	root := t.TempDir()
	writeTree(t, root, "docs/templates/adr-template.md")
	assert.Equal(t, []string{"docs/templates/adr-template.md"}, rel(t, root, Scanner{}.Scan(root)))
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "docs/api")
	assert.Empty(t, Scanner{}.Scan(root))
}

func TestScan_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTree(t, root, "docs/api/a.md", "docs/api/locked/b.md", "docs/api/z.md")
	locked := filepath.Join(root, "docs", "api", "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := rel(t, root, Scanner{}.Scan(root))
	assert.Equal(t, []string{"docs/api/a.md", "docs/api/z.md"}, got)
}

func TestScan_SymlinkedDirectoryNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, "docs/api/a.md")
	require.NoError(t, os.Symlink(filepath.Join(root, "docs", "api"), filepath.Join(root, "docs", "api", "loop")))

	got := rel(t, root, Scanner{}.Scan(root))
	assert.Equal(t, []string{"docs/api/a.md"}, got)
}
