// Package config — i18n4j.yaml configuration file support.
//
// When an i18n4j.yaml file exists in the project root, its settings override
// the auto-detected ones. Only keys present in the file are applied.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the project root.
const FileName = "i18n4j.yaml"

// File is the top-level i18n4j.yaml structure.
type File struct {
	// Catalog is the source catalog path relative to the project root.
	Catalog string `yaml:"catalog,omitempty"`
	// SourceLang is the source language code (default "zh").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Languages is the target language list (overrides sibling detection).
	Languages []string `yaml:"languages,omitempty"`
	// MaxKeyAttempts is the key-naming oracle retry ceiling.
	MaxKeyAttempts int `yaml:"max_key_attempts,omitempty"`
	// MaxTranslateAttempts is the per-entry translation retry ceiling.
	MaxTranslateAttempts int `yaml:"max_translate_attempts,omitempty"`
	// Model overrides the oracle model identifier.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the oracle endpoint base URL.
	BaseURL string `yaml:"base_url,omitempty"`
}

// LoadFile loads and validates i18n4j.yaml from the given directory.
// Returns nil if no i18n4j.yaml exists. Unknown keys are rejected so typos
// don't silently fall back to defaults.
func LoadFile(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if f.MaxKeyAttempts < 0 {
		return nil, fmt.Errorf("%s: max_key_attempts must not be negative", path)
	}
	if f.MaxTranslateAttempts < 0 {
		return nil, fmt.Errorf("%s: max_translate_attempts must not be negative", path)
	}
	for _, lang := range f.Languages {
		if !isLangCode(lang) {
			return nil, fmt.Errorf("%s: %q is not a language code", path, lang)
		}
	}

	return &f, nil
}

// Apply merges the file's settings into an auto-detected project.
func (f *File) Apply(p *Project) {
	if f.Catalog != "" {
		if filepath.IsAbs(f.Catalog) {
			p.CatalogPath = f.Catalog
		} else {
			p.CatalogPath = filepath.Join(p.Root, f.Catalog)
		}
		p.Languages = detectLanguages(p.CatalogPath)
	}
	if f.SourceLang != "" {
		p.SourceLang = f.SourceLang
	}
	if len(f.Languages) > 0 {
		p.Languages = append([]string(nil), f.Languages...)
	}
	if f.MaxKeyAttempts > 0 {
		p.MaxKeyAttempts = f.MaxKeyAttempts
	}
	if f.MaxTranslateAttempts > 0 {
		p.MaxTranslateAttempts = f.MaxTranslateAttempts
	}
}

// Load detects the project and applies i18n4j.yaml overrides when present.
func Load(rootDir string) (*Project, *File, error) {
	p := Detect(rootDir)
	f, err := LoadFile(p.Root)
	if err != nil {
		return nil, nil, err
	}
	if f != nil {
		f.Apply(p)
	}
	return p, f, nil
}
