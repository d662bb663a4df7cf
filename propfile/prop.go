// Package propfile implements the .properties catalog store.
//
// Format: one key=value entry per line, split at the first '='. Lines
// starting with '#' or '!' are comments and are preserved verbatim on
// save, as are blank lines. Multi-line values (backslash continuation)
// are not supported — each line is treated independently. Malformed
// non-blank lines are kept as comments and reported as parse warnings.
//
// File naming convention: the source catalog plus one sibling per
// target language:
//
//	messages.properties     (source)
//	messages_en.properties  (translation)
//
// The File type maintains original line order so that load/save
// round-trips reproduce the same key-value sequence. Saving replaces
// the target atomically, keeping a .bak copy of the previous file.
package propfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// lineKind classifies each line in the file.
type lineKind int

const (
	lineBlank   lineKind = iota // blank / whitespace-only line
	lineComment                 // comment line (starts with # or !)
	lineEntry                   // key=value pair
)

// line is a single line in the properties file.
type line struct {
	kind  lineKind
	raw   string // original text for comment/blank lines
	key   string // only for lineEntry
	value string // only for lineEntry; may be replaced by Set
}

// Entry is a key=value pair in document order.
type Entry struct {
	Key   string
	Value string
}

// File represents a parsed .properties catalog.
type File struct {
	// lines stores all lines in document order.
	lines []line
	// index maps key → index in lines for fast lookup.
	index map[string]int
	// Warnings collects malformed-line reports from parsing.
	Warnings []string
}

// New returns an empty catalog.
func New() *File {
	return &File{index: make(map[string]int)}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .properties catalog from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data), nil
}

// Parse parses .properties content from a byte slice.
func Parse(data []byte) *File {
	f := New()

	text := string(data)
	// Normalise Windows line endings.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rawLines := strings.Split(text, "\n")

	// Drop trailing empty element from a file that ends with \n.
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}

	for i, raw := range rawLines {
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			f.lines = append(f.lines, line{kind: lineBlank, raw: raw})

		case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!"):
			f.lines = append(f.lines, line{kind: lineComment, raw: raw})

		default:
			eq := strings.IndexByte(trimmed, '=')
			if eq <= 0 {
				// Malformed line — keep it as a comment so the file
				// round-trips, but surface a warning.
				f.Warnings = append(f.Warnings, fmt.Sprintf("line %d: not a key=value pair: %s", i+1, trimmed))
				f.lines = append(f.lines, line{kind: lineComment, raw: raw})
				continue
			}
			k := strings.TrimSpace(trimmed[:eq])
			v := strings.TrimSpace(trimmed[eq+1:])
			if idx, exists := f.index[k]; exists {
				// Duplicate key: overwrite value but keep position.
				f.Warnings = append(f.Warnings, fmt.Sprintf("line %d: duplicate key %q", i+1, k))
				f.lines[idx].value = v
				continue
			}
			idx := len(f.lines)
			f.lines = append(f.lines, line{kind: lineEntry, key: k, value: v})
			f.index[k] = idx
		}
	}

	return f
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Len returns the number of entries.
func (f *File) Len() int {
	return len(f.index)
}

// Keys returns all catalog keys in document order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.index))
	for _, ln := range f.lines {
		if ln.kind == lineEntry {
			keys = append(keys, ln.key)
		}
	}
	return keys
}

// Entries returns all key=value pairs in document order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, 0, len(f.index))
	for _, ln := range f.lines {
		if ln.kind == lineEntry {
			entries = append(entries, Entry{Key: ln.key, Value: ln.value})
		}
	}
	return entries
}

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok {
		return f.lines[idx].value, true
	}
	return "", false
}

// Has reports whether key exists.
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// KeyFor returns the first key bound to value, in document order.
func (f *File) KeyFor(value string) (string, bool) {
	for _, ln := range f.lines {
		if ln.kind == lineEntry && ln.value == value {
			return ln.key, true
		}
	}
	return "", false
}

// Set updates the value for an existing key in place, or appends a new
// entry at the end of the file.
func (f *File) Set(key, value string) {
	if idx, ok := f.index[key]; ok {
		f.lines[idx].value = value
		return
	}
	f.index[key] = len(f.lines)
	f.lines = append(f.lines, line{kind: lineEntry, key: key, value: value})
}

// Delete removes an entry. Returns false if the key does not exist.
func (f *File) Delete(key string) bool {
	idx, ok := f.index[key]
	if !ok {
		return false
	}
	f.lines = append(f.lines[:idx], f.lines[idx+1:]...)
	delete(f.index, key)
	for k, i := range f.index {
		if i > idx {
			f.index[k] = i - 1
		}
	}
	return true
}

// AppendComment appends a comment line ("# text").
func (f *File) AppendComment(text string) {
	f.lines = append(f.lines, line{kind: lineComment, raw: "# " + text})
}

// AppendBlank appends an empty line.
func (f *File) AppendBlank() {
	f.lines = append(f.lines, line{kind: lineBlank})
}

// Stats returns (total, nonEmpty, percentNonEmpty) for this file.
func (f *File) Stats() (int, int, float64) {
	total, filled := 0, 0
	for _, ln := range f.lines {
		if ln.kind == lineEntry {
			total++
			if ln.value != "" {
				filled++
			}
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(filled) / float64(total) * 100
	}
	return total, filled, pct
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the catalog back to .properties format.
func (f *File) Marshal() []byte {
	var buf bytes.Buffer
	for _, ln := range f.lines {
		switch ln.kind {
		case lineBlank:
			buf.WriteByte('\n')
		case lineComment:
			buf.WriteString(ln.raw)
			buf.WriteByte('\n')
		case lineEntry:
			buf.WriteString(ln.key)
			buf.WriteByte('=')
			buf.WriteString(ln.value)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Save writes the catalog to path, replacing any previous file
// atomically. The full content goes to a temporary file in the target
// directory first; an existing file is copied to path+".bak" before the
// rename, and restored from that copy if the rename fails. A dangling
// temporary file is removed on every failure path.
func (f *File) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(f.Marshal()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	backup := path + ".bak"
	hadPrevious := false
	if _, err := os.Stat(path); err == nil {
		hadPrevious = true
		if err := copyFile(path, backup); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		if hadPrevious {
			if rerr := copyFile(backup, path); rerr != nil {
				return fmt.Errorf("replacing %s: %w (restore failed: %v)", path, err, rerr)
			}
		}
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
