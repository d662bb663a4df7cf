// Package report implements i18n4j.report.yaml — the placeholder-mismatch
// report a translation run leaves next to the catalogs. Every entry names a
// translation that was stored even though its {} placeholder count differs
// from the source value, so a reviewer can fix them by hand.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CrazyBunQnQ/i18n4j/translate"
)

// FileName is the report file name, created in the catalog directory.
const FileName = "i18n4j.report.yaml"

// Version is the report file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Entry is one stored-anyway translation.
type Entry struct {
	Key        string `yaml:"key"`
	Source     string `yaml:"source"`
	Translated string `yaml:"translated"`
	// WantPlaceholders is the {} count of the source value.
	WantPlaceholders int `yaml:"want_placeholders"`
	// GotPlaceholders is the {} count of the stored translation.
	GotPlaceholders int `yaml:"got_placeholders"`
}

// Language groups the entries of one target catalog.
type Language struct {
	Lang    string  `yaml:"lang"`
	Entries []Entry `yaml:"entries"`
}

// File represents the i18n4j.report.yaml structure.
type File struct {
	Version     int        `yaml:"version"`
	GeneratedAt string     `yaml:"generated_at"`
	Languages   []Language `yaml:"languages"`
}

// Path returns the report path for a catalog directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Total returns the number of entries across all languages.
func (f *File) Total() int {
	n := 0
	for _, lang := range f.Languages {
		n += len(lang.Entries)
	}
	return n
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// FromRun converts the per-language reports of a translation run. Languages
// without mismatches are omitted.
func FromRun(reports []translate.Report) *File {
	f := &File{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, r := range reports {
		if len(r.Mismatches) == 0 {
			continue
		}
		lang := Language{Lang: r.Lang}
		for _, m := range r.Mismatches {
			lang.Entries = append(lang.Entries, Entry{
				Key:              m.Key,
				Source:           m.SourceValue,
				Translated:       m.TranslatedValue,
				WantPlaceholders: m.SourceCount,
				GotPlaceholders:  m.TranslatedCount,
			})
		}
		f.Languages = append(f.Languages, lang)
	}

	return f
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a report file. Returns an empty report if the file doesn't
// exist.
func Load(path string) (*File, error) {
	f := &File{Version: Version}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return f, nil
}

// Save writes the report to disk.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
