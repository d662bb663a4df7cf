// Package provider implements the model oracles used for key naming and
// catalog translation, speaking the OpenAI-compatible chat completion API.
//
// The clients are pure transport: they build prompts, place one call and
// hand back the raw reply. Normalization, validation and retry policy stay
// with the callers.
package provider

import (
	"context"
	"time"
)

// Defaults for a locally hosted OpenAI-compatible endpoint.
const (
	DefaultModel   = "gemma3:12b"
	DefaultTimeout = 30 * time.Second
)

// Translator turns one source value into one target-language value.
type Translator interface {
	Translate(ctx context.Context, key, value, lang, langName string) (string, error)
}

// KeyNamer proposes a property key for a source value. rejected carries the
// raw replies already turned down this round, so the model can avoid them.
type KeyNamer interface {
	SuggestKey(ctx context.Context, value string, rejected []string) (string, error)
}

// Config describes an OpenAI-compatible endpoint.
type Config struct {
	// BaseURL is the endpoint root; /v1 is appended. Empty keeps the
	// library default.
	BaseURL string
	// APIKey may be empty for unauthenticated local endpoints.
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// SourceName is the human name of the source language used in
	// prompts. Defaults to "Chinese".
	SourceName string
	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout time.Duration
}
