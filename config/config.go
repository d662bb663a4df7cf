// Package config implements auto-detection of project settings
// from pom.xml, the existing .properties catalog, and its language siblings.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// CatalogExt is the catalog file extension.
const CatalogExt = ".properties"

// DefaultSourceLang is the language of the source catalog.
const DefaultSourceLang = "zh"

// Project holds auto-detected project configuration.
type Project struct {
	// Root is the absolute project root directory.
	Root string
	// Name is the project name (pom.xml artifactId or directory name).
	Name string
	// Version from pom.xml or fallback.
	Version string
	// CatalogPath is the source catalog path.
	CatalogPath string
	// SourceLang is the language code of the source catalog (default "zh").
	SourceLang string
	// Languages are target language codes detected from sibling catalogs.
	Languages []string
	// Modules are Maven module directories under Root, relative to it.
	Modules []string
	// MaxKeyAttempts is the key-naming oracle retry ceiling (default 3).
	MaxKeyAttempts int
	// MaxTranslateAttempts is the per-entry translation retry ceiling (default 5).
	MaxTranslateAttempts int
}

// CatalogDir returns the directory containing the source catalog.
func (p *Project) CatalogDir() string {
	return filepath.Dir(p.CatalogPath)
}

// CatalogBase returns the catalog file name without the .properties suffix.
func (p *Project) CatalogBase() string {
	return strings.TrimSuffix(filepath.Base(p.CatalogPath), CatalogExt)
}

// LangCatalogPath returns the sibling catalog path for a target language,
// e.g. messages_en.properties next to messages.properties.
func (p *Project) LangCatalogPath(lang string) string {
	return filepath.Join(p.CatalogDir(), p.CatalogBase()+"_"+lang+CatalogExt)
}

// Detect auto-detects project settings from the working directory.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{
		Root:                 absRoot,
		SourceLang:           DefaultSourceLang,
		MaxKeyAttempts:       3,
		MaxTranslateAttempts: 5,
	}

	// Try the root pom.xml for name and version
	if name, version, err := parsePOM(filepath.Join(absRoot, "pom.xml")); err == nil {
		p.Name = name
		p.Version = version
	}

	// Fallback to directory name
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}

	p.CatalogPath = detectCatalog(absRoot)
	p.Languages = detectLanguages(p.CatalogPath)
	p.Modules = detectModules(absRoot)

	return p
}

// catalogCandidates are checked in order relative to the project root.
var catalogCandidates = []string{
	filepath.Join("src", "main", "resources", "messages"+CatalogExt),
	filepath.Join("src", "main", "resources", "i18n", "messages"+CatalogExt),
	"messages" + CatalogExt,
}

// detectCatalog finds the source catalog, or the path a new one should be
// created at when none exists yet.
func detectCatalog(rootDir string) string {
	for _, rel := range catalogCandidates {
		path := filepath.Join(rootDir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	// No catalog yet: prefer the standard Maven resources directory.
	resources := filepath.Join(rootDir, "src", "main", "resources")
	if info, err := os.Stat(resources); err == nil && info.IsDir() {
		return filepath.Join(resources, "messages"+CatalogExt)
	}
	return filepath.Join(rootDir, "messages"+CatalogExt)
}

// SiblingCatalogs returns the existing per-language catalogs next to the
// source catalog, keyed by language code.
func SiblingCatalogs(catalogPath string) map[string]string {
	dir := filepath.Dir(catalogPath)
	base := strings.TrimSuffix(filepath.Base(catalogPath), CatalogExt)
	prefix := base + "_"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	siblings := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, CatalogExt) {
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, prefix), CatalogExt)
		if isLangCode(lang) {
			siblings[lang] = filepath.Join(dir, name)
		}
	}
	return siblings
}

// detectLanguages finds target language codes from sibling catalogs.
func detectLanguages(catalogPath string) []string {
	var langs []string
	for lang := range SiblingCatalogs(catalogPath) {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// isLangCode checks if a string looks like a language code (en, ru, zh_CN, etc).
func isLangCode(s string) bool {
	if len(s) == 2 {
		return s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z'
	}
	if len(s) == 5 && s[2] == '_' {
		return s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z' &&
			s[3] >= 'A' && s[3] <= 'Z' && s[4] >= 'A' && s[4] <= 'Z'
	}
	return false
}

// transientDirs are never module directories.
var transientDirs = map[string]bool{
	"target":       true,
	"build":        true,
	"out":          true,
	"bin":          true,
	"tmp":          true,
	"node_modules": true,
	"src":          true,
}

// detectModules finds Maven module directories under the root (directories
// carrying their own pom.xml), relative to it.
func detectModules(rootDir string) []string {
	var modules []string
	filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != rootDir && (transientDirs[name] || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		if path == rootDir {
			return nil
		}
		if _, err := os.Stat(filepath.Join(path, "pom.xml")); err == nil {
			rel, err := filepath.Rel(rootDir, path)
			if err == nil {
				modules = append(modules, rel)
			}
		}
		return nil
	})
	sort.Strings(modules)
	return modules
}

// ---------------------------------------------------------------------------
// pom.xml parsing
// ---------------------------------------------------------------------------

var (
	pomParentRe     = regexp.MustCompile(`(?s)<parent>.*?</parent>`)
	pomArtifactIDRe = regexp.MustCompile(`<artifactId>\s*([^<]+?)\s*</artifactId>`)
	pomVersionRe    = regexp.MustCompile(`<version>\s*([^<]+?)\s*</version>`)
)

// parsePOM extracts the artifact ID and version from a pom.xml. The <parent>
// block is dropped first so the parent's coordinates are not picked up.
func parsePOM(path string) (name, version string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	stripped := pomParentRe.ReplaceAllString(string(data), "")

	if m := pomArtifactIDRe.FindStringSubmatch(stripped); m != nil {
		name = m[1]
	}
	if m := pomVersionRe.FindStringSubmatch(stripped); m != nil {
		version = m[1]
	}
	if name == "" {
		return "", "", os.ErrNotExist
	}
	return name, version, nil
}
