// Package translate contains tests for the validator/retry loop.
package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CrazyBunQnQ/i18n4j/propfile"
	"github.com/CrazyBunQnQ/i18n4j/provider"
)

// makeTask builds a LangTask with the given source entries and an empty
// target catalog saved under a temp dir.
func makeTask(t *testing.T, entries [][2]string) LangTask {
	t.Helper()
	src := propfile.New()
	for _, e := range entries {
		src.Set(e[0], e[1])
	}
	return LangTask{
		Lang:     "en",
		LangName: "English",
		FilePath: filepath.Join(t.TempDir(), "messages_en.properties"),
		File:     propfile.New(),
		Source:   src,
	}
}

// ---------------------------------------------------------------------------
// CleanReply
// ---------------------------------------------------------------------------

func TestCleanReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", "Login succeeded", "Login succeeded"},
		{"whitespace", "  Login succeeded \n", "Login succeeded"},
		{"chinese label", "英文翻译：Login succeeded", "Login succeeded"},
		{"english label", "Translation: Login succeeded", "Login succeeded"},
		{"lowercase label", "translation: Login succeeded", "Login succeeded"},
		{"stacked labels", "英文翻译：Translation: Login succeeded", "Login succeeded"},
		{"double quotes", `"Login succeeded"`, "Login succeeded"},
		{"single quotes", "'Login succeeded'", "Login succeeded"},
		{"label then quotes", `英文翻译："Login succeeded"`, "Login succeeded"},
		{"inner quote kept", `Say "hello" now`, `Say "hello" now`},
		{"empty", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanReply(tc.raw)
			if got != tc.want {
				t.Errorf("CleanReply(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// PlaceholderCount
// ---------------------------------------------------------------------------

func TestPlaceholderCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    string
		want int
	}{
		{"用户{}已登录", 1},
		{"第{}页，共{}条", 2},
		{"{name} logged in", 1},
		{"no placeholders", 0},
		{"{ not one }", 0},
		{"", 0},
	}
	for _, tc := range tests {
		got := PlaceholderCount(tc.s)
		if got != tc.want {
			t.Errorf("PlaceholderCount(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// PendingKeys
// ---------------------------------------------------------------------------

func TestPendingKeys(t *testing.T) {
	task := makeTask(t, [][2]string{
		{"login_ok", "登录成功"},
		{"logout_ok", "退出成功"},
		{"empty_src", ""},
	})
	task.File.Set("login_ok", "Login succeeded")

	got := PendingKeys(task, Options{})
	if len(got) != 1 || got[0] != "logout_ok" {
		t.Fatalf("PendingKeys() = %v, want [logout_ok]", got)
	}

	got = PendingKeys(task, Options{Retranslate: true})
	if len(got) != 2 || got[0] != "login_ok" || got[1] != "logout_ok" {
		t.Fatalf("PendingKeys(retranslate) = %v, want [login_ok logout_ok]", got)
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_FillsGapsInSourceOrder(t *testing.T) {
	task := makeTask(t, [][2]string{
		{"login_ok", "登录成功"},
		{"logout_ok", "退出成功"},
	})
	mock := &provider.Mock{}

	mismatches, err := Run(context.Background(), task, Options{Translator: mock})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("mismatches = %d, want 0", len(mismatches))
	}

	keys := task.File.Keys()
	if len(keys) != 2 || keys[0] != "login_ok" || keys[1] != "logout_ok" {
		t.Fatalf("target keys = %v, want [login_ok logout_ok]", keys)
	}
	if v, _ := task.File.Get("login_ok"); v != "[en] 登录成功" {
		t.Errorf("login_ok = %q", v)
	}

	// Run persists the catalog on completion.
	saved, err := propfile.ParseFile(task.FilePath)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if saved.Len() != 2 {
		t.Errorf("saved entries = %d, want 2", saved.Len())
	}
}

func TestRun_SkipsAlreadyTranslated(t *testing.T) {
	task := makeTask(t, [][2]string{
		{"login_ok", "登录成功"},
		{"logout_ok", "退出成功"},
	})
	task.File.Set("login_ok", "Login succeeded")
	mock := &provider.Mock{}

	if _, err := Run(context.Background(), task, Options{Translator: mock}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mock.TranslateCalls != 1 {
		t.Errorf("TranslateCalls = %d, want 1", mock.TranslateCalls)
	}
	if v, _ := task.File.Get("login_ok"); v != "Login succeeded" {
		t.Errorf("existing value overwritten: %q", v)
	}
}

func TestRun_RetranslateOverwritesExisting(t *testing.T) {
	task := makeTask(t, [][2]string{{"login_ok", "登录成功"}})
	task.File.Set("login_ok", "stale translation")
	mock := &provider.Mock{}

	if _, err := Run(context.Background(), task, Options{Translator: mock, Retranslate: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mock.TranslateCalls != 1 {
		t.Errorf("TranslateCalls = %d, want 1", mock.TranslateCalls)
	}
	if v, _ := task.File.Get("login_ok"); v != "[en] 登录成功" {
		t.Errorf("login_ok = %q, want fresh translation", v)
	}
}

func TestRun_CleansReplies(t *testing.T) {
	task := makeTask(t, [][2]string{{"login_ok", "登录成功"}})
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			return `英文翻译："Login succeeded"`, nil
		},
	}

	if _, err := Run(context.Background(), task, Options{Translator: mock}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v, _ := task.File.Get("login_ok"); v != "Login succeeded" {
		t.Errorf("login_ok = %q, want cleaned reply", v)
	}
}

func TestRun_MismatchRetriesThenStoresLastCandidate(t *testing.T) {
	// Source has one placeholder; the oracle never produces one. All five
	// attempts must be consumed, the fifth candidate stored, and exactly one
	// mismatch recorded.
	task := makeTask(t, [][2]string{{"page_info", "第{}页"}})
	calls := 0
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			calls++
			return fmt.Sprintf("Page reply %d", calls), nil
		},
	}

	mismatches, err := Run(context.Background(), task, Options{Translator: mock})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if calls != 5 {
		t.Fatalf("oracle calls = %d, want 5", calls)
	}
	if v, _ := task.File.Get("page_info"); v != "Page reply 5" {
		t.Errorf("stored value = %q, want the last candidate", v)
	}
	if len(mismatches) != 1 {
		t.Fatalf("mismatches = %d, want 1", len(mismatches))
	}
	m := mismatches[0]
	if m.Key != "page_info" || m.SourceValue != "第{}页" || m.TranslatedValue != "Page reply 5" {
		t.Errorf("mismatch = %+v", m)
	}
	if m.SourceCount != 1 || m.TranslatedCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", m.SourceCount, m.TranslatedCount)
	}
}

func TestRun_MismatchAcceptsOnLaterAttempt(t *testing.T) {
	task := makeTask(t, [][2]string{{"page_info", "第{}页"}})
	calls := 0
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			calls++
			if calls < 3 {
				return "Page without placeholder", nil
			}
			return "Page {}", nil
		},
	}

	mismatches, err := Run(context.Background(), task, Options{Translator: mock})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 3 {
		t.Errorf("oracle calls = %d, want 3", calls)
	}
	if len(mismatches) != 0 {
		t.Errorf("mismatches = %d, want 0", len(mismatches))
	}
	if v, _ := task.File.Get("page_info"); v != "Page {}" {
		t.Errorf("stored value = %q", v)
	}
}

func TestRun_AllAttemptsFailLeavesGap(t *testing.T) {
	task := makeTask(t, [][2]string{
		{"broken", "坏掉的"},
		{"fine", "好的"},
	})
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			if key == "broken" {
				return "", fmt.Errorf("model unavailable")
			}
			return "Fine", nil
		},
	}

	mismatches, err := Run(context.Background(), task, Options{Translator: mock, MaxAttempts: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("mismatches = %d, want 0", len(mismatches))
	}
	if task.File.Has("broken") {
		t.Error("failed entry should stay absent from the target")
	}
	if v, _ := task.File.Get("fine"); v != "Fine" {
		t.Errorf("fine = %q", v)
	}
}

func TestRun_EmptyRepliesConsumeAttempts(t *testing.T) {
	task := makeTask(t, [][2]string{{"k", "值"}})
	calls := 0
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			calls++
			return "   ", nil
		},
	}

	if _, err := Run(context.Background(), task, Options{Translator: mock, MaxAttempts: 3}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 3 {
		t.Errorf("oracle calls = %d, want 3", calls)
	}
	if task.File.Has("k") {
		t.Error("entry should stay absent after empty replies")
	}
}

func TestRun_InterruptSavesProcessedEntries(t *testing.T) {
	// Cancel after the second entry: exactly the processed entries must be
	// on disk, and later entries must never reach the oracle.
	var entries [][2]string
	for i := 0; i < 6; i++ {
		entries = append(entries, [2]string{fmt.Sprintf("key_%d", i), fmt.Sprintf("值%d", i)})
	}
	task := makeTask(t, entries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mock := &provider.Mock{}
	opts := Options{
		Translator: mock,
		OnProgress: func(done, total int, key string) {
			if done == 2 {
				cancel()
			}
		},
	}

	_, err := Run(ctx, task, opts)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.TranslateCalls != 2 {
		t.Errorf("TranslateCalls = %d, want 2", mock.TranslateCalls)
	}

	saved, err := propfile.ParseFile(task.FilePath)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if saved.Len() != 2 {
		t.Fatalf("saved entries = %d, want exactly the 2 processed", saved.Len())
	}
	if v, _ := saved.Get("key_1"); v != "[en] 值1" {
		t.Errorf("key_1 = %q", v)
	}
}

func TestRun_CheckpointCadence(t *testing.T) {
	var entries [][2]string
	for i := 0; i < 5; i++ {
		entries = append(entries, [2]string{fmt.Sprintf("key_%d", i), fmt.Sprintf("值%d", i)})
	}
	task := makeTask(t, entries)

	var saves int
	opts := Options{
		Translator:      &provider.Mock{},
		CheckpointEvery: 2,
		OnLog: func(format string, args ...any) {
			if strings.HasPrefix(format, "Saved ") {
				saves++
			}
		},
	}

	if _, err := Run(context.Background(), task, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Checkpoints after entries 2 and 4, plus the final save.
	if saves != 3 {
		t.Errorf("saves = %d, want 3", saves)
	}
}

func TestRun_NothingPendingWritesNothing(t *testing.T) {
	task := makeTask(t, [][2]string{{"login_ok", "登录成功"}})
	task.File.Set("login_ok", "Login succeeded")

	mock := &provider.Mock{}
	if _, err := Run(context.Background(), task, Options{Translator: mock}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mock.TranslateCalls != 0 {
		t.Errorf("TranslateCalls = %d, want 0", mock.TranslateCalls)
	}
	if _, err := os.Stat(task.FilePath); !os.IsNotExist(err) {
		t.Errorf("target file should not have been written, stat err = %v", err)
	}
}

func TestRun_NoTranslator(t *testing.T) {
	task := makeTask(t, [][2]string{{"k", "值"}})
	if _, err := Run(context.Background(), task, Options{}); err == nil {
		t.Fatal("expected an error without a translator")
	}
}

func TestRun_PreservesExistingEntryPositions(t *testing.T) {
	task := makeTask(t, [][2]string{
		{"first", "一"},
		{"second", "二"},
		{"third", "三"},
	})
	// Target already has the middle entry; new keys append after it.
	task.File.Set("second", "Two")

	if _, err := Run(context.Background(), task, Options{Translator: &provider.Mock{}}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	keys := task.File.Keys()
	want := []string{"second", "first", "third"}
	if len(keys) != 3 || keys[0] != want[0] || keys[1] != want[1] || keys[2] != want[2] {
		t.Errorf("target keys = %v, want %v", keys, want)
	}
}

// ---------------------------------------------------------------------------
// RunAll
// ---------------------------------------------------------------------------

func TestRunAll_SequentialLanguages(t *testing.T) {
	src := propfile.New()
	src.Set("login_ok", "登录成功")

	dir := t.TempDir()
	tasks := []LangTask{
		{Lang: "en", LangName: "English", FilePath: filepath.Join(dir, "messages_en.properties"), File: propfile.New(), Source: src},
		{Lang: "ja", LangName: "Japanese", FilePath: filepath.Join(dir, "messages_ja.properties"), File: propfile.New(), Source: src},
	}

	var order []string
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			order = append(order, lang)
			return "[" + lang + "] " + value, nil
		},
	}

	reports, err := RunAll(context.Background(), tasks, Options{Translator: mock})
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(reports) != 2 || reports[0].Lang != "en" || reports[1].Lang != "ja" {
		t.Fatalf("reports = %+v", reports)
	}
	if len(order) != 2 || order[0] != "en" || order[1] != "ja" {
		t.Errorf("call order = %v, want [en ja]", order)
	}
	for _, task := range tasks {
		if _, err := os.Stat(task.FilePath); err != nil {
			t.Errorf("%s not saved: %v", task.FilePath, err)
		}
	}
}

func TestRunAll_CancelStopsBatch(t *testing.T) {
	src := propfile.New()
	src.Set("k", "值")

	dir := t.TempDir()
	tasks := []LangTask{
		{Lang: "en", LangName: "English", FilePath: filepath.Join(dir, "a.properties"), File: propfile.New(), Source: src},
		{Lang: "ja", LangName: "Japanese", FilePath: filepath.Join(dir, "b.properties"), File: propfile.New(), Source: src},
	}

	ctx, cancel := context.WithCancel(context.Background())
	mock := &provider.Mock{
		TranslateFunc: func(ctx context.Context, key, value, lang, langName string) (string, error) {
			cancel()
			return "done", nil
		},
	}

	_, err := RunAll(ctx, tasks, Options{Translator: mock})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The second language must never start.
	if mock.TranslateCalls != 1 {
		t.Errorf("TranslateCalls = %d, want 1", mock.TranslateCalls)
	}
}
