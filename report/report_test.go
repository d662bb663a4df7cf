package report

import (
	"os"
	"strings"
	"testing"

	"github.com/CrazyBunQnQ/i18n4j/translate"
)

func TestLoadNonExistent(t *testing.T) {
	f, err := Load(Path(t.TempDir()))
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if f.Version != Version {
		t.Errorf("Version = %d, want %d", f.Version, Version)
	}
	if f.Total() != 0 {
		t.Errorf("Total() = %d, want 0", f.Total())
	}
}

func TestFromRun(t *testing.T) {
	reports := []translate.Report{
		{Lang: "en"},
		{Lang: "ja", Mismatches: []translate.Mismatch{
			{
				Key:             "user.login",
				SourceValue:     "用户{}已登录",
				TranslatedValue: "User logged in",
				SourceCount:     1,
				TranslatedCount: 0,
			},
			{
				Key:             "order.count",
				SourceValue:     "共{}笔订单",
				TranslatedValue: "{} {} orders",
				SourceCount:     1,
				TranslatedCount: 2,
			},
		}},
	}

	f := FromRun(reports)
	if f.Total() != 2 {
		t.Fatalf("Total() = %d, want 2", f.Total())
	}
	// Languages without mismatches are dropped
	if len(f.Languages) != 1 {
		t.Fatalf("len(Languages) = %d, want 1", len(f.Languages))
	}
	if f.Languages[0].Lang != "ja" {
		t.Errorf("Lang = %q, want %q", f.Languages[0].Lang, "ja")
	}
	if f.GeneratedAt == "" {
		t.Error("GeneratedAt not set")
	}

	e := f.Languages[0].Entries[0]
	if e.Key != "user.login" || e.WantPlaceholders != 1 || e.GotPlaceholders != 0 {
		t.Errorf("Entries[0] = %+v, want user.login 1/0", e)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := Path(t.TempDir())

	f := FromRun([]translate.Report{
		{Lang: "en", Mismatches: []translate.Mismatch{
			{Key: "k", SourceValue: "值{}", TranslatedValue: "value", SourceCount: 1},
		}},
	})
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}
	if !strings.Contains(string(data), "want_placeholders: 1") {
		t.Errorf("report missing placeholder count:\n%s", data)
	}

	f2, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if f2.Total() != 1 {
		t.Errorf("Total() = %d, want 1", f2.Total())
	}
	if f2.Languages[0].Entries[0].Source != "值{}" {
		t.Errorf("Source = %q, want %q", f2.Languages[0].Entries[0].Source, "值{}")
	}
}
