// Package keygen mints stable .properties keys for extracted values: an
// optional model oracle proposes readable English names, and a
// deterministic fallback guarantees a key for every value. Keys carry a
// dotted module prefix derived from the Maven layout of the file the value
// was first seen in.
package keygen

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/CrazyBunQnQ/i18n4j/provider"
)

// DefaultMaxAttempts bounds the naming-oracle loop before the
// deterministic fallback takes over.
const DefaultMaxAttempts = 3

// Catalog is the view of existing bindings the assigner needs.
type Catalog interface {
	// Get returns the value bound to key.
	Get(key string) (string, bool)
	// KeyFor returns the first key bound to value.
	KeyFor(value string) (string, bool)
}

// Assigner mints keys against one catalog.
type Assigner struct {
	// Root is the scan root. Directories strictly below it contribute
	// module prefixes; the root itself never does.
	Root string
	// Namer is the optional key-naming oracle. Nil means deterministic
	// keys only.
	Namer provider.KeyNamer
	// MaxAttempts bounds oracle attempts per value. Defaults to
	// DefaultMaxAttempts.
	MaxAttempts int
	// OnLog receives operator-visible notes, such as oracle fallbacks.
	OnLog func(msg string)
}

func (a *Assigner) log(format string, args ...any) {
	if a.OnLog != nil {
		a.OnLog(fmt.Sprintf(format, args...))
	}
}

func (a *Assigner) maxAttempts() int {
	if a.MaxAttempts > 0 {
		return a.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Assign returns the key for value. A value already in the catalog keeps
// its key forever; otherwise a new key is derived (oracle first, fallback
// second), prefixed, and de-collided. The only error is a cancelled
// context: the value is then left unbound for a later run.
func (a *Assigner) Assign(ctx context.Context, value, originFile string, catalog Catalog) (string, error) {
	if key, ok := catalog.KeyFor(value); ok {
		return key, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prefix := ModulePrefix(a.Root, originFile)

	var base string
	if a.Namer != nil {
		suggested, err := a.suggest(ctx, value, prefix, catalog)
		if err != nil {
			return "", err
		}
		base = suggested
	}
	if base == "" {
		base = FallbackKey(value)
	}

	full := joinPrefix(prefix, base)
	key := full
	for n := 1; ; n++ {
		bound, ok := catalog.Get(key)
		if !ok || bound == value {
			return key, nil
		}
		key = fmt.Sprintf("%s_%d", full, n)
	}
}

// suggest runs the bounded oracle loop. An empty return with nil error
// means the oracle gave nothing usable and the fallback should be used.
func (a *Assigner) suggest(ctx context.Context, value, prefix string, catalog Catalog) (string, error) {
	limit := a.maxAttempts()
	var rejected []string
	for attempt := 1; attempt <= limit; attempt++ {
		raw, err := a.Namer.SuggestKey(ctx, value, rejected)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			a.log("key naming attempt %d/%d failed: %v", attempt, limit, err)
			continue
		}
		base := NormalizeKey(raw)
		if base == "" {
			rejected = append(rejected, raw)
			continue
		}
		candidate := joinPrefix(prefix, base)
		if bound, ok := catalog.Get(candidate); ok && bound != value {
			rejected = append(rejected, raw)
			continue
		}
		return base, nil
	}
	a.log("key naming oracle gave no usable key after %d attempts, falling back to deterministic naming", limit)
	return "", nil
}

func joinPrefix(prefix, base string) string {
	if prefix == "" {
		return base
	}
	return prefix + "." + base
}

var (
	nonKeyRune    = regexp.MustCompile(`[^a-z0-9_]`)
	nonValueRune  = regexp.MustCompile(`[^a-zA-Z0-9\x{4e00}-\x{9fff}]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeKey turns a raw oracle reply into key form: first line only,
// wrapping quotes and backticks dropped, lowercased, anything outside
// [a-z0-9_] folded to single underscores. Empty means the reply was
// unusable.
func NormalizeKey(raw string) string {
	line := raw
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "\"'`")
	line = strings.ToLower(line)
	line = nonKeyRune.ReplaceAllString(line, "_")
	line = underscoreRun.ReplaceAllString(line, "_")
	return strings.Trim(line, "_")
}

// FallbackKey derives a deterministic key from the value itself. Letters,
// digits and CJK ideographs survive; everything else folds to single
// underscores. Very short results get a str_ hash name, very long ones are
// truncated with a hash tail so distinct values stay distinct.
func FallbackKey(value string) string {
	key := nonValueRune.ReplaceAllString(value, "_")
	key = underscoreRun.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")
	key = strings.ToLower(key)

	runes := []rune(key)
	switch {
	case len(runes) < 3:
		return "str_" + md5Hex(value)[:8]
	case len(runes) > 50:
		return string(runes[:47]) + "_" + md5Hex(value)[:3]
	}
	return key
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// transientDirs are build artifacts that never name a module.
var transientDirs = map[string]bool{
	"target": true,
	"build":  true,
	"out":    true,
	"bin":    true,
	"tmp":    true,
}

// ModulePrefix derives the dotted module prefix for a file: every ancestor
// directory strictly between root (exclusive) and the file that carries a
// pom.xml contributes its sanitized name, outermost first.
func ModulePrefix(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}

	var parts []string
	cur := root
	for _, dir := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if dir == "" || dir == "." {
			continue
		}
		cur = filepath.Join(cur, dir)
		if transientDirs[dir] || strings.HasPrefix(dir, ".") {
			continue
		}
		if fileExists(filepath.Join(cur, "pom.xml")) {
			parts = append(parts, sanitizeModule(dir))
		}
	}
	return strings.Join(parts, ".")
}

// sanitizeModule folds a directory name into key form: lowercase,
// non-alphanumeric runes become underscores.
func sanitizeModule(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
