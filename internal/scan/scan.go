// Package scan discovers Markdown documentation files beneath a fixed set of
// directories. Traversal is depth-first in lexical order so that results are
// reproducible for a given filesystem state. Unreadable directories are
// skipped rather than reported.
package scan

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// MarkdownExt is the extension a file needs to be discovered.
const MarkdownExt = ".md"

var defaultRoots = []string{
	"docs/templates",
	"docs/architecture",
	"docs/api",
	"docs/user-guides",
	"docs/development",
}

// DefaultRoots returns the documentation directories searched, relative to
// the project root, in search order. The slice is a fresh copy.
func DefaultRoots() []string {
	return slices.Clone(defaultRoots)
}

// Scanner lists Markdown files below a project's documentation roots.
type Scanner struct {
	Roots  []string // relative to the project root; DefaultRoots() when empty
	Logger *slog.Logger
}

// Scan returns the paths of all Markdown files under the configured roots
// of projectRoot. Roots are visited in order; a missing or unreadable root
// contributes nothing. Returned paths are projectRoot joined with the
// relative location of the file.
func (s Scanner) Scan(projectRoot string) []string {
	roots := s.Roots
	if len(roots) == 0 {
		roots = defaultRoots
	}
	var files []string
	for _, r := range roots {
		files = append(files, s.walk(filepath.Join(projectRoot, filepath.FromSlash(r)))...)
	}
	return files
}

// walk lists dir with an explicit worklist instead of recursion. Entries are
// pushed in reverse so they pop in lexical order, which yields the same
// pre-order a recursive walk would: a subdirectory's files appear between the
// siblings that sort before and after it.
func (s Scanner) walk(dir string) []string {
	type item struct {
		path  string
		isDir bool
	}
	var files []string
	stack := []item{{path: dir, isDir: true}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !cur.isDir {
			files = append(files, cur.path)
			continue
		}

		// os.ReadDir returns the entries read before an error, sorted.
		entries, err := os.ReadDir(cur.path)
		if err != nil {
			s.skip(cur.path, err)
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			full := filepath.Join(cur.path, e.Name())
			switch kind := entryKind(full, e); {
			case kind.IsDir():
				stack = append(stack, item{path: full, isDir: true})
			case kind.IsRegular() && strings.HasSuffix(e.Name(), MarkdownExt):
				stack = append(stack, item{path: full})
			}
		}
	}
	return files
}

// entryKind resolves the type of a directory entry. Symlinks to regular
// files are followed; symlinks to directories are not, so link cycles cannot
// trap the walk.
func entryKind(path string, e fs.DirEntry) fs.FileMode {
	t := e.Type()
	if t&fs.ModeSymlink == 0 {
		return t
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fs.ModeIrregular
	}
	return info.Mode().Type()
}

func (s Scanner) skip(path string, err error) {
	if s.Logger != nil {
		s.Logger.Debug("scan: skipping directory", "path", path, "error", err)
	}
}
