// Package merge walks a Java source tree and folds per-file extraction
// results into one ordered value table with first-seen attribution.
package merge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/CrazyBunQnQ/i18n4j/extract"
)

// skipDirs contains directory names never scanned: build output, IDE and
// VCS metadata.
var skipDirs = map[string]bool{
	"target":       true,
	"build":        true,
	"out":          true,
	"bin":          true,
	"node_modules": true,
	".git":         true,
	".idea":        true,
	".svn":         true,
}

// Location is the file and 1-based line a value was first seen at.
type Location struct {
	File string
	Line int
}

// Table accumulates extracted values in first-seen order. Re-scanning an
// unchanged tree reproduces the identical table.
type Table struct {
	Values  []string
	Origins map[string]Location
}

// NewTable returns an empty accumulation table.
func NewTable() *Table {
	return &Table{Origins: make(map[string]Location)}
}

// Add records a value. The first location wins; later sightings of the
// same value are ignored.
func (t *Table) Add(value string, loc Location) {
	if _, ok := t.Origins[value]; ok {
		return
	}
	t.Origins[value] = loc
	t.Values = append(t.Values, value)
}

// Len returns the number of distinct values collected.
func (t *Table) Len() int {
	return len(t.Values)
}

// Options carries the progress callbacks for a tree scan. Zero value means
// silent operation.
type Options struct {
	// OnProgress is called before each file is scanned.
	OnProgress func(done, total int, path string)
	// OnWarning is called for files that are skipped.
	OnWarning func(msg string)
}

func (o *Options) progress(done, total int, path string) {
	if o != nil && o.OnProgress != nil {
		o.OnProgress(done, total, path)
	}
}

func (o *Options) warn(msg string) {
	if o != nil && o.OnWarning != nil {
		o.OnWarning(msg)
	}
}

// FindSources recursively collects the .java files under root in sorted
// order, skipping build and VCS directories, test source roots and
// *Test.java files. Unreadable entries are skipped silently.
func FindSources(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" || isTestFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// isTestFile reports whether path is Java test code: under a src/test
// source root, or named *Test.java / *Tests.java.
func isTestFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, "Test.java") || strings.HasSuffix(base, "Tests.java") {
		return true
	}
	segs := strings.Split(filepath.ToSlash(path), "/")
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == "src" && segs[i+1] == "test" {
			return true
		}
	}
	return false
}

// Collect scans the given files in order and folds every extracted literal
// into one table. Files that cannot be read or decoded are skipped with a
// warning; the scan always continues.
func Collect(files []string, opts *Options) *Table {
	table := NewTable()
	for i, path := range files {
		opts.progress(i+1, len(files), path)

		data, err := os.ReadFile(path)
		if err != nil {
			opts.warn(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		src, err := decodeSource(data)
		if err != nil {
			opts.warn(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}

		for _, lit := range extract.ScanSource(src) {
			table.Add(lit.Value, Location{File: path, Line: lit.Line})
		}
	}
	return table
}

// decodeSource interprets raw file bytes as UTF-8, falling back to GBK for
// legacy sources. Fails when the content is valid in neither encoding.
func decodeSource(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(decoded) || bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", fmt.Errorf("not valid UTF-8 or GBK")
	}
	return string(decoded), nil
}
