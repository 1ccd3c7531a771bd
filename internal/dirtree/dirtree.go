// Package dirtree renders a directory as an indented text tree.
package dirtree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

// DefaultIgnoreDirs are directory names skipped by default.
var DefaultIgnoreDirs = []string{".git", "__pycache__", "node_modules", ".venv"}

// DefaultIgnoreFiles are file name patterns skipped by default.
var DefaultIgnoreFiles = []string{".DS_Store", "*.pyc", "*.pyo", "*.pyd", ".env"}

// Generator walks a file system and produces tree lines.
type Generator struct {
	ignoreDirs  []string
	ignoreFiles []string
}

// NewGenerator creates a Generator with the default ignore lists.
func NewGenerator(options ...GeneratorBuilderOption) *Generator {
	g := &Generator{
		ignoreDirs:  slices.Clone(DefaultIgnoreDirs),
		ignoreFiles: slices.Clone(DefaultIgnoreFiles),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate returns the tree of fsys. The first line is rootLabel; directories are listed before
// files and each group is ordered case-insensitively.
//
// Parameters:
//   - fsys: the file system to walk
//   - rootLabel: the first line, usually the absolute root path
//
// Returns:
//   - []string: the tree lines
//   - error: if the root cannot be read
func (g *Generator) Generate(fsys fs.FS, rootLabel string) ([]string, error) {
	lines := []string{rootLabel}
	if _, err := fs.ReadDir(fsys, "."); err != nil {
		return nil, fmt.Errorf("reading %s: %w", rootLabel, err)
	}
	g.walk(fsys, ".", "", &lines)
	return lines, nil
}

func (g *Generator) walk(fsys fs.FS, dir, prefix string, lines *[]string) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			*lines = append(*lines, prefix+lastBranch+"[Permission Denied]")
			return
		}
		log.Printf("dirtree: %s: %v", dir, err)
		return
	}

	entries = slices.DeleteFunc(entries, g.ignored)
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})

	for i, e := range entries {
		last := i == len(entries)-1
		connector, next := branch, pipe
		if last {
			connector, next = lastBranch, blank
		}
		*lines = append(*lines, prefix+connector+e.Name())
		if e.IsDir() {
			g.walk(fsys, path.Join(dir, e.Name()), prefix+next, lines)
		}
	}
}

func (g *Generator) ignored(e fs.DirEntry) bool {
	patterns := g.ignoreFiles
	if e.IsDir() {
		patterns = g.ignoreDirs
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, e.Name()); err == nil && ok {
			return true
		}
	}
	return false
}

// Write writes the report header followed by lines.
func Write(w io.Writer, lines []string, generated time.Time) error {
	header := []string{
		"Directory Tree",
		"Generated: " + generated.Format(time.DateTime),
		strings.Repeat("=", 50),
		"",
	}
	_, err := io.WriteString(w, strings.Join(append(header, lines...), "\n"))
	return err
}
