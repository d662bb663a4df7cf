package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Prompts sent to the oracles. {{...}} markers are replaced per call.
const (
	translateSystem = `You are a professional software localization translator.
Translate .properties values for a Java application from {{sourceLang}} into {{targetLang}}.
Reply with the translated text only: no labels, no surrounding quotes, no explanations.
Placeholders in curly braces such as {} or {0} are variables; keep each one unchanged and place it naturally.`

	translateUser = `Translate the value of property "{{key}}" into {{targetLang}}:

{{value}}`

	keyNameSystem = `You name .properties keys for a Java application.
Given a source-language text, reply with one short English key in lower snake_case: letters, digits and underscores only.
Reply with the key only: no quotes, no explanations.`

	keyNameUser = `Text: {{value}}`
)

// Client talks to one OpenAI-compatible endpoint and implements both
// Translator and KeyNamer.
type Client struct {
	client     *openai.Client
	model      string
	sourceName string
	timeout    time.Duration
}

// New builds a client for the configured endpoint.
func New(cfg Config) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = apiBase(cfg.BaseURL)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	sourceName := cfg.SourceName
	if sourceName == "" {
		sourceName = "Chinese"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:     openai.NewClientWithConfig(c),
		model:      model,
		sourceName: sourceName,
		timeout:    timeout,
	}
}

// apiBase normalizes a user-supplied endpoint root into the /v1 API base.
func apiBase(raw string) string {
	return strings.TrimRight(raw, "/") + "/v1"
}

// Translate asks the model for one translation. The reply is returned
// trimmed but otherwise raw; callers strip labels and validate
// placeholders.
func (c *Client) Translate(ctx context.Context, key, value, lang, langName string) (string, error) {
	if langName == "" {
		langName = lang
	}
	system := strings.NewReplacer(
		"{{sourceLang}}", c.sourceName,
		"{{targetLang}}", langName,
	).Replace(translateSystem)
	user := strings.NewReplacer(
		"{{key}}", key,
		"{{targetLang}}", langName,
		"{{value}}", value,
	).Replace(translateUser)

	return c.complete(ctx, system, user)
}

// SuggestKey asks the model to name a property key for value, steering it
// away from the already rejected replies.
func (c *Client) SuggestKey(ctx context.Context, value string, rejected []string) (string, error) {
	user := strings.ReplaceAll(keyNameUser, "{{value}}", value)
	if len(rejected) > 0 {
		var b strings.Builder
		b.WriteString(user)
		b.WriteString("\n\nDo not reply with any of these, they are already taken:")
		for _, r := range rejected {
			b.WriteString("\n- ")
			b.WriteString(r)
		}
		user = b.String()
	}
	return c.complete(ctx, keyNameSystem, user)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", &ProviderError{Message: "chat completion failed", Cause: err, Retryable: isRetryable(err)}
	}
	if len(resp.Choices) == 0 {
		return "", &EmptyResponseError{}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &EmptyResponseError{}
	}
	return content, nil
}

// isRetryable classifies transport failures worth another attempt.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

var (
	_ Translator = (*Client)(nil)
	_ KeyNamer   = (*Client)(nil)
)
