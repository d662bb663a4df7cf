// Package translate fills the gaps in target-language catalogs by asking a
// translation oracle for each missing value and validating every reply
// before it is stored. Validation checks that the {} placeholder count of
// the translation matches the source value; replies that keep failing are
// stored anyway after the attempt ceiling, with a Mismatch recorded so the
// run can report them at the end.
package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/CrazyBunQnQ/i18n4j/propfile"
	"github.com/CrazyBunQnQ/i18n4j/provider"
)

// ---------------------------------------------------------------------------
// Tasks and options
// ---------------------------------------------------------------------------

// LangTask holds one target-language catalog ready for translation.
type LangTask struct {
	// Lang is the language code from the catalog file name (e.g. "en").
	Lang string
	// LangName is the human-readable language name passed to the oracle.
	LangName string
	// FilePath is the path the target catalog is saved to.
	FilePath string
	// File is the target catalog.
	File *propfile.File
	// Source is the source catalog whose entries drive the run.
	Source *propfile.File
}

// Mismatch records a translation that was stored even though its {}
// placeholder count differs from the source value.
type Mismatch struct {
	Key             string
	SourceValue     string
	TranslatedValue string
	SourceCount     int
	TranslatedCount int
}

// Report summarizes one language's run.
type Report struct {
	Lang       string
	Mismatches []Mismatch
}

// Options controls the translation behavior.
type Options struct {
	// Translator performs the oracle calls.
	Translator provider.Translator
	// MaxAttempts is the per-entry attempt ceiling. Default: 5.
	MaxAttempts int
	// Retranslate if true, re-translates entries that already have a value.
	Retranslate bool
	// CheckpointEvery is how many processed entries trigger an intermediate
	// save. Default: 100.
	CheckpointEvery int
	// OnProgress is called after each processed entry.
	OnProgress func(done, total int, key string)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveMaxAttempts() int {
	if o.MaxAttempts > 0 {
		return o.MaxAttempts
	}
	return 5
}

func (o *Options) effectiveCheckpointEvery() int {
	if o.CheckpointEvery > 0 {
		return o.CheckpointEvery
	}
	return 100
}

// ---------------------------------------------------------------------------
// Run loops
// ---------------------------------------------------------------------------

// RunAll translates each language task in order, one at a time. Per-language
// failures are logged and skipped so the remaining languages still run; a
// cancelled context stops the whole batch after checkpointing the current
// task.
func RunAll(ctx context.Context, tasks []LangTask, opts Options) ([]Report, error) {
	var reports []Report
	var failedLangs []string
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			return reports, ctx.Err()
		default:
		}

		mismatches, err := Run(ctx, task, opts)
		if err != nil {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			opts.logError("Error translating %s: %v", task.Lang, err)
			failedLangs = append(failedLangs, task.Lang)
			continue
		}
		reports = append(reports, Report{Lang: task.Lang, Mismatches: mismatches})
	}
	if len(failedLangs) > 0 {
		return reports, fmt.Errorf("%d language(s) failed: %s", len(failedLangs), strings.Join(failedLangs, ", "))
	}
	return reports, nil
}

// Run fills the gaps in one target catalog, walking the source entries in
// order. Every fully processed entry is on disk when Run returns, whatever
// the exit path: the catalog is checkpointed every CheckpointEvery entries
// and saved again on completion, interruption, and error. A candidate that
// failed validation is never written mid-entry.
func Run(ctx context.Context, task LangTask, opts Options) ([]Mismatch, error) {
	if opts.Translator == nil {
		return nil, fmt.Errorf("no translator configured")
	}

	pending := PendingKeys(task, opts)
	if len(pending) == 0 {
		return nil, nil
	}

	opts.log("Translating %s (%s) — %d entries...", task.Lang, task.LangName, len(pending))

	var mismatches []Mismatch
	processed := 0

	for _, key := range pending {
		select {
		case <-ctx.Done():
			saveCatalog(task, opts)
			return mismatches, ctx.Err()
		default:
		}

		src, _ := task.Source.Get(key)
		value, mis := translateEntry(ctx, key, src, task, opts)
		if value == "" && ctx.Err() != nil {
			saveCatalog(task, opts)
			return mismatches, ctx.Err()
		}

		if value != "" {
			task.File.Set(key, value)
		}
		if mis != nil {
			mismatches = append(mismatches, *mis)
		}

		processed++
		if opts.OnProgress != nil {
			opts.OnProgress(processed, len(pending), key)
		}
		if processed%opts.effectiveCheckpointEvery() == 0 {
			saveCatalog(task, opts)
		}
	}

	saveCatalog(task, opts)
	return mismatches, nil
}

// PendingKeys returns the keys Run would process, in source order. Entries
// that already carry a non-empty value in the target are skipped unless
// Retranslate is set.
func PendingKeys(task LangTask, opts Options) []string {
	var keys []string
	for _, key := range task.Source.Keys() {
		src, ok := task.Source.Get(key)
		if !ok || src == "" {
			continue
		}
		if !opts.Retranslate {
			if cur, ok := task.File.Get(key); ok && cur != "" {
				continue
			}
		}
		keys = append(keys, key)
	}
	return keys
}

// translateEntry runs the attempt loop for a single source entry. It returns
// the value to store ("" when no attempt produced anything usable) and a
// Mismatch when the value being stored failed placeholder validation.
func translateEntry(ctx context.Context, key, src string, task LangTask, opts Options) (string, *Mismatch) {
	maxAttempts := opts.effectiveMaxAttempts()
	srcCount := PlaceholderCount(src)

	candidate := ""
	candidateCount := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := opts.Translator.Translate(ctx, key, src, task.Lang, task.LangName)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil
			}
			opts.logError("  %s: attempt %d/%d failed: %v", key, attempt, maxAttempts, err)
			continue
		}

		cleaned := CleanReply(raw)
		if cleaned == "" {
			opts.logError("  %s: attempt %d/%d returned nothing", key, attempt, maxAttempts)
			continue
		}

		candidate = cleaned
		candidateCount = PlaceholderCount(cleaned)
		if candidateCount == srcCount {
			return cleaned, nil
		}
		opts.log("  %s: placeholder count %d, want %d — retrying (%d/%d)", key, candidateCount, srcCount, attempt, maxAttempts)
	}

	if candidate == "" {
		opts.logError("  %s: no usable translation after %d attempts, leaving empty", key, maxAttempts)
		return "", nil
	}

	opts.logError("  %s: keeping last candidate despite placeholder mismatch (%d, want %d)", key, candidateCount, srcCount)
	return candidate, &Mismatch{
		Key:             key,
		SourceValue:     src,
		TranslatedValue: candidate,
		SourceCount:     srcCount,
		TranslatedCount: candidateCount,
	}
}

// saveCatalog checkpoints the target catalog and logs the result.
func saveCatalog(task LangTask, opts Options) {
	if err := task.File.Save(task.FilePath); err != nil {
		opts.logError("Error saving %s: %v", task.FilePath, err)
		return
	}
	total, filled, _ := task.File.Stats()
	opts.log("Saved %s (%d/%d translated)", task.FilePath, filled, total)
}

// ---------------------------------------------------------------------------
// Reply cleanup and validation
// ---------------------------------------------------------------------------

// placeholderPattern matches the {} and {name} placeholders produced when
// concatenation expressions are collapsed during extraction.
var placeholderPattern = regexp.MustCompile(`\{\w*\}`)

// PlaceholderCount returns the number of {} placeholders in s.
func PlaceholderCount(s string) int {
	return len(placeholderPattern.FindAllString(s, -1))
}

// replyLabel matches the prefixes some models prepend to the bare
// translation, e.g. "英文翻译：" or "Translation:".
var replyLabel = regexp.MustCompile(`^(?:\p{Han}{0,8}翻译|[Tt]ranslation)\s*[:：]\s*`)

// CleanReply strips the label prefixes and wrapping quotes some models add
// around the translated text.
func CleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		stripped := replyLabel.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = strings.TrimSpace(stripped)
	}
	return trimWrappingQuotes(s)
}

// trimWrappingQuotes removes matching quote pairs that wrap the whole reply.
func trimWrappingQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last {
			break
		}
		if first != '"' && first != '\'' && first != '`' {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
