package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeFile creates a file with parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

const rootPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <parent>
    <groupId>org.springframework.boot</groupId>
    <artifactId>spring-boot-starter-parent</artifactId>
    <version>2.7.18</version>
  </parent>
  <groupId>com.example</groupId>
  <artifactId>order-platform</artifactId>
  <version>1.4.0</version>
</project>
`

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pom.xml"), rootPOM)

	resources := filepath.Join(dir, "src", "main", "resources")
	writeFile(t, filepath.Join(resources, "messages.properties"), "login_ok=登录成功\n")
	writeFile(t, filepath.Join(resources, "messages_en.properties"), "login_ok=Login succeeded\n")
	writeFile(t, filepath.Join(resources, "messages_ja.properties"), "")
	// Not language siblings:
	writeFile(t, filepath.Join(resources, "messages_backup.properties"), "")
	writeFile(t, filepath.Join(resources, "application.properties"), "")

	writeFile(t, filepath.Join(dir, "order-api", "pom.xml"), "<project><artifactId>order-api</artifactId></project>")
	writeFile(t, filepath.Join(dir, "target", "classes", "pom.xml"), "<project><artifactId>stale</artifactId></project>")

	p := Detect(dir)

	if p.Name != "order-platform" {
		t.Errorf("Name = %q, want order-platform", p.Name)
	}
	if p.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", p.Version)
	}
	if p.SourceLang != "zh" {
		t.Errorf("SourceLang = %q, want zh", p.SourceLang)
	}
	if p.CatalogPath != filepath.Join(resources, "messages.properties") {
		t.Errorf("CatalogPath = %q", p.CatalogPath)
	}
	if !reflect.DeepEqual(p.Languages, []string{"en", "ja"}) {
		t.Errorf("Languages = %v, want [en ja]", p.Languages)
	}
	if !reflect.DeepEqual(p.Modules, []string{"order-api"}) {
		t.Errorf("Modules = %v, want [order-api]", p.Modules)
	}
	if p.MaxKeyAttempts != 3 || p.MaxTranslateAttempts != 5 {
		t.Errorf("attempt ceilings = %d/%d, want 3/5", p.MaxKeyAttempts, p.MaxTranslateAttempts)
	}
}

func TestDetect_FallbacksWithoutPOM(t *testing.T) {
	dir := t.TempDir()

	p := Detect(dir)

	if p.Name != filepath.Base(dir) {
		t.Errorf("Name = %q, want directory name", p.Name)
	}
	if p.Version != "0.0.0" {
		t.Errorf("Version = %q, want 0.0.0", p.Version)
	}
	// No catalog and no resources dir: default to the root location.
	if p.CatalogPath != filepath.Join(dir, "messages.properties") {
		t.Errorf("CatalogPath = %q", p.CatalogPath)
	}
	if len(p.Languages) != 0 {
		t.Errorf("Languages = %v, want none", p.Languages)
	}
}

func TestDetect_PrefersResourcesForNewCatalog(t *testing.T) {
	dir := t.TempDir()
	resources := filepath.Join(dir, "src", "main", "resources")
	if err := os.MkdirAll(resources, 0755); err != nil {
		t.Fatal(err)
	}

	p := Detect(dir)
	if p.CatalogPath != filepath.Join(resources, "messages.properties") {
		t.Errorf("CatalogPath = %q, want the resources location", p.CatalogPath)
	}
}

func TestLangCatalogPath(t *testing.T) {
	p := &Project{CatalogPath: filepath.Join("/app", "res", "messages.properties")}
	got := p.LangCatalogPath("en")
	want := filepath.Join("/app", "res", "messages_en.properties")
	if got != want {
		t.Fatalf("LangCatalogPath(en) = %q, want %q", got, want)
	}
	if p.CatalogBase() != "messages" {
		t.Fatalf("CatalogBase() = %q, want messages", p.CatalogBase())
	}
}

func TestSiblingCatalogs(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "messages.properties")
	writeFile(t, catalog, "")
	writeFile(t, filepath.Join(dir, "messages_en.properties"), "")
	writeFile(t, filepath.Join(dir, "messages_zh_CN.properties"), "")
	writeFile(t, filepath.Join(dir, "messages_old.properties"), "")

	siblings := SiblingCatalogs(catalog)
	if len(siblings) != 2 {
		t.Fatalf("siblings = %v, want en and zh_CN", siblings)
	}
	if siblings["en"] != filepath.Join(dir, "messages_en.properties") {
		t.Errorf("siblings[en] = %q", siblings["en"])
	}
	if siblings["zh_CN"] != filepath.Join(dir, "messages_zh_CN.properties") {
		t.Errorf("siblings[zh_CN] = %q", siblings["zh_CN"])
	}
}

func TestIsLangCode(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"en", true},
		{"ja", true},
		{"zh_CN", true},
		{"pt_BR", true},
		{"EN", false},
		{"eng", false},
		{"zh-CN", false},
		{"backup", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := isLangCode(tc.s); got != tc.want {
			t.Errorf("isLangCode(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		dir := t.TempDir()
		f, err := LoadFile(dir)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if f != nil {
			t.Fatalf("LoadFile expected nil, got %#v", f)
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		dir := t.TempDir()
		yaml := "catalog: conf/messages.properties\n" +
			"source_lang: zh\n" +
			"languages: [en, ja]\n" +
			"max_key_attempts: 6\n" +
			"model: qwen2:7b\n"
		writeFile(t, filepath.Join(dir, FileName), yaml)

		f, err := LoadFile(dir)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if f.Catalog != "conf/messages.properties" {
			t.Errorf("Catalog = %q", f.Catalog)
		}
		if !reflect.DeepEqual(f.Languages, []string{"en", "ja"}) {
			t.Errorf("Languages = %v", f.Languages)
		}
		if f.MaxKeyAttempts != 6 {
			t.Errorf("MaxKeyAttempts = %d, want 6", f.MaxKeyAttempts)
		}
		if f.Model != "qwen2:7b" {
			t.Errorf("Model = %q", f.Model)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "max_key_attempt: 3\n")

		if _, err := LoadFile(dir); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})

	t.Run("rejects bad language codes", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "languages: [english]\n")

		_, err := LoadFile(dir)
		if err == nil {
			t.Fatal("expected error for bad language code")
		}
		if !strings.Contains(err.Error(), "not a language code") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "")

		f, err := LoadFile(dir)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if f == nil {
			t.Fatal("empty file should load as empty overrides, not nil")
		}
	})
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf", "messages.properties"), "")
	writeFile(t, filepath.Join(dir, "conf", "messages_ko.properties"), "")

	p := Detect(dir)
	f := &File{Catalog: filepath.Join("conf", "messages.properties"), MaxKeyAttempts: 7}
	f.Apply(p)

	if p.CatalogPath != filepath.Join(dir, "conf", "messages.properties") {
		t.Errorf("CatalogPath = %q", p.CatalogPath)
	}
	// Languages re-detected against the overridden catalog.
	if !reflect.DeepEqual(p.Languages, []string{"ko"}) {
		t.Errorf("Languages = %v, want [ko]", p.Languages)
	}
	if p.MaxKeyAttempts != 7 {
		t.Errorf("MaxKeyAttempts = %d, want 7", p.MaxKeyAttempts)
	}
	// Untouched fields keep their detected values.
	if p.SourceLang != "zh" {
		t.Errorf("SourceLang = %q, want zh", p.SourceLang)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "languages: [en]\nsource_lang: zh\n")

	p, f, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f == nil {
		t.Fatal("expected the overrides file to be loaded")
	}
	if !reflect.DeepEqual(p.Languages, []string{"en"}) {
		t.Errorf("Languages = %v, want [en]", p.Languages)
	}
}
