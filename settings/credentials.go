// Package settings provides storage for i18n4j user settings, today the
// translation oracle credentials.
//
// Settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/i18n4j/  (default: ~/.local/share/i18n4j/)
//
// Files stored:
//   - auth.json — oracle endpoint credentials (API key, base URL, model)
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for each field:
//  1. command-line flag (highest priority)
//  2. environment variable (OPENAI_API_KEY, OPENAI_API_BASE_URL, I18N4J_MODEL)
//  3. this store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "i18n4j"
	fileName    = "auth.json"
)

// Environment variables consulted before the stored credentials.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_API_BASE_URL"
	EnvModel   = "I18N4J_MODEL"
)

// DefaultBaseURL is the endpoint used when nothing else is configured.
const DefaultBaseURL = "https://api.openai.com"

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials holds the stored oracle endpoint configuration.
type Credentials struct {
	// Key is the API key sent as the bearer token.
	Key string `json:"key,omitempty"`
	// BaseURL is the endpoint base URL (the client appends /v1).
	BaseURL string `json:"baseUrl,omitempty"`
	// Model overrides the default model identifier.
	Model string `json:"model,omitempty"`
}

// IsEmpty returns true when no field is set.
func (c *Credentials) IsEmpty() bool {
	return c.Key == "" && c.BaseURL == "" && c.Model == ""
}

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for i18n4j.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

// filePath returns the path to the auth file.
// Default: ~/.local/share/i18n4j/auth.json (or $XDG_DATA_HOME/i18n4j/auth.json).
func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the i18n4j data directory path.
// Default: ~/.local/share/i18n4j (or $XDG_DATA_HOME/i18n4j).
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save / Remove
// ---------------------------------------------------------------------------

// Load reads the stored credentials from disk.
// Returns empty credentials if the file doesn't exist or is invalid.
func Load() *Credentials {
	path, err := filePath()
	if err != nil {
		return &Credentials{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Credentials{}
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return &Credentials{}
	}

	return &creds
}

// Save writes the credentials to disk with 0600 permissions.
func Save(creds *Credentials) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}

	return nil
}

// Remove deletes the stored credentials.
func Remove() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveAPIKey returns the API key to use, applying the lookup order.
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	return Load().Key
}

// ResolveBaseURL returns the endpoint base URL to use, applying the lookup
// order and falling back to DefaultBaseURL.
func ResolveBaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvBaseURL); env != "" {
		return env
	}
	if stored := Load().BaseURL; stored != "" {
		return stored
	}
	return DefaultBaseURL
}

// ResolveModel returns the model identifier to use, applying the lookup
// order. Returns empty when nothing is configured so the client can apply
// its own default.
func ResolveModel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvModel); env != "" {
		return env
	}
	return Load().Model
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
