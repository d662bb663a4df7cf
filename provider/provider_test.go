package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}
	if c.sourceName != "Chinese" {
		t.Errorf("sourceName = %q, want Chinese", c.sourceName)
	}
}

func TestNew_Overrides(t *testing.T) {
	t.Parallel()

	c := New(Config{Model: "qwen2.5:7b", SourceName: "Japanese", Timeout: 5 * time.Second})
	if c.model != "qwen2.5:7b" {
		t.Errorf("model = %q", c.model)
	}
	if c.sourceName != "Japanese" {
		t.Errorf("sourceName = %q", c.sourceName)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.timeout)
	}
}

func TestAPIBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{in: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{in: "https://api.example.com//", want: "https://api.example.com/v1"},
	}
	for _, tc := range tests {
		if got := apiBase(tc.in); got != tc.want {
			t.Errorf("apiBase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPromptExpansion(t *testing.T) {
	t.Parallel()

	system := strings.NewReplacer(
		"{{sourceLang}}", "Chinese",
		"{{targetLang}}", "English",
	).Replace(translateSystem)
	if strings.Contains(system, "{{") {
		t.Errorf("unexpanded marker left in system prompt:\n%s", system)
	}
	if !strings.Contains(system, "into English") {
		t.Errorf("target language missing from system prompt:\n%s", system)
	}

	user := strings.NewReplacer(
		"{{key}}", "login_ok",
		"{{targetLang}}", "English",
		"{{value}}", "登录成功",
	).Replace(translateUser)
	if !strings.Contains(user, `"login_ok"`) || !strings.Contains(user, "登录成功") {
		t.Errorf("user prompt incomplete:\n%s", user)
	}
}

func TestMock_Defaults(t *testing.T) {
	t.Parallel()

	m := &Mock{}
	got, err := m.Translate(context.Background(), "k", "值", "en", "English")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[en] 值" {
		t.Errorf("Translate = %q", got)
	}
	key, err := m.SuggestKey(context.Background(), "值", nil)
	if err != nil {
		t.Fatal(err)
	}
	if key != "suggested_key" {
		t.Errorf("SuggestKey = %q", key)
	}
	if m.TranslateCalls != 1 || m.SuggestCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", m.TranslateCalls, m.SuggestCalls)
	}

	m.Reset()
	if m.TranslateCalls != 0 || m.SuggestCalls != 0 {
		t.Errorf("Reset left counters %d/%d", m.TranslateCalls, m.SuggestCalls)
	}
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := error(&ProviderError{Message: "chat completion failed", Cause: cause})

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As failed for *ProviderError")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap chain lost the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestEmptyResponseError(t *testing.T) {
	t.Parallel()

	err := error(&EmptyResponseError{})
	var ee *EmptyResponseError
	if !errors.As(err, &ee) {
		t.Fatal("errors.As failed for *EmptyResponseError")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	if !isRetryable(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be retryable")
	}
	if isRetryable(errors.New("bad request")) {
		t.Error("arbitrary error should not be retryable")
	}
}
