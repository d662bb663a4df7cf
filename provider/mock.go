package provider

import (
	"context"
	"fmt"
)

// Mock is a scripted oracle for tests. Unset functions fall back to
// deterministic canned behavior.
type Mock struct {
	TranslateFunc func(ctx context.Context, key, value, lang, langName string) (string, error)
	SuggestFunc   func(ctx context.Context, value string, rejected []string) (string, error)

	TranslateCalls int
	SuggestCalls   int
}

// Translate returns the scripted translation, or the source value in
// brackets when no script is set.
func (m *Mock) Translate(ctx context.Context, key, value, lang, langName string) (string, error) {
	m.TranslateCalls++
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, key, value, lang, langName)
	}
	return fmt.Sprintf("[%s] %s", lang, value), nil
}

// SuggestKey returns the scripted key suggestion, or a fixed name when no
// script is set.
func (m *Mock) SuggestKey(ctx context.Context, value string, rejected []string) (string, error) {
	m.SuggestCalls++
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, value, rejected)
	}
	return "suggested_key", nil
}

// Reset clears the call counters.
func (m *Mock) Reset() {
	m.TranslateCalls = 0
	m.SuggestCalls = 0
}

var (
	_ Translator = (*Mock)(nil)
	_ KeyNamer   = (*Mock)(nil)
)
