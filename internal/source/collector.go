// Package source collects the files codescan analyzes.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/language"
)

// File is a source file selected for analysis
type File struct {
	// Path is the file path as reached from its root
	Path string
	// Root is the source root the file was found under
	Root string
	// Rel is the slash-separated path relative to Root
	Rel string
	// Language is the language inferred from the file extension
	Language *language.Language
	// Size in bytes
	Size int64
}

// Collection is the result of walking the source roots
type Collection struct {
	Files      []File
	TotalBytes int64
}

// Collector walks source roots and keeps files of known languages
type Collector struct {
	// Roots are files or directories to scan
	Roots []string
	// Exclude holds doublestar patterns matched against root-relative paths
	Exclude []string
}

// NewCollector creates a collector for the given roots
func NewCollector(roots []string, exclude []string) *Collector {
	return &Collector{Roots: roots, Exclude: exclude}
}

// SplitRoots splits a comma-separated -d value
func SplitRoots(value string) []string {
	var roots []string
	for _, r := range strings.Split(value, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return roots
}

// Collect walks every root. Files are returned sorted by path so that analysis
// output is stable across runs.
func (c *Collector) Collect() (*Collection, error) {
	debug.LogSection("Source Collection")

	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	result := &Collection{}
	seen := make(map[string]bool)

	for _, root := range c.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("source root %s: %w", root, err)
		}

		if !info.IsDir() {
			c.add(result, seen, root, filepath.Dir(root), info)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && c.excluded(root, path) {
					debug.Log("Skipping excluded directory: %s", path)
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			c.add(result, seen, path, root, info)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	debug.LogCollection(len(result.Files), result.TotalBytes)
	return result, nil
}

func (c *Collector) add(result *Collection, seen map[string]bool, path, root string, info fs.FileInfo) {
	lang, ok := language.ForFile(path)
	if !ok {
		return
	}
	if c.excluded(root, path) {
		debug.Log("Skipping excluded file: %s", path)
		return
	}
	clean := filepath.Clean(path)
	if seen[clean] {
		return
	}
	seen[clean] = true

	result.Files = append(result.Files, File{
		Path:     clean,
		Root:     root,
		Rel:      relPath(root, path),
		Language: lang,
		Size:     info.Size(),
	})
	result.TotalBytes += info.Size()
}

// excluded reports whether path matches any exclude pattern
func (c *Collector) excluded(root, path string) bool {
	if len(c.Exclude) == 0 {
		return false
	}
	rel := relPath(root, path)
	for _, pattern := range c.Exclude {
		matched, err := doublestar.Match(filepath.ToSlash(pattern), rel)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// GroupByLanguage buckets files by language name
func (c *Collection) GroupByLanguage() map[string][]File {
	groups := make(map[string][]File)
	for _, f := range c.Files {
		groups[f.Language.Name] = append(groups[f.Language.Name], f)
	}
	return groups
}
