// i18n4j — Java i18n toolkit: hardcoded-string extraction with AI key naming and translation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/CrazyBunQnQ/i18n4j/config"
	"github.com/CrazyBunQnQ/i18n4j/enumfile"
	"github.com/CrazyBunQnQ/i18n4j/i18n"
	"github.com/CrazyBunQnQ/i18n4j/keygen"
	"github.com/CrazyBunQnQ/i18n4j/langmeta"
	"github.com/CrazyBunQnQ/i18n4j/merge"
	"github.com/CrazyBunQnQ/i18n4j/propfile"
	"github.com/CrazyBunQnQ/i18n4j/provider"
	"github.com/CrazyBunQnQ/i18n4j/report"
	"github.com/CrazyBunQnQ/i18n4j/settings"
	"github.com/CrazyBunQnQ/i18n4j/translate"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// checkpointEvery is how many processed values trigger an intermediate
// catalog save during extraction.
const checkpointEvery = 100

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "i18n4j",
		Short: "Java i18n toolkit with AI key naming and translation",
		Long: `i18n4j — Java i18n toolkit with AI key naming and translation.

Scans a Maven/Spring Boot source tree for hardcoded natural-language strings,
reconstructs values split across string concatenations, assigns stable
property keys (AI-assisted, deterministic fallback) and maintains
messages.properties catalogs for every target language.

Commands:
  status      Show project info and catalog coverage
  extract     Scan sources and update the source catalog
  translate   Fill target-language catalogs using AI
  clean       Drop placeholder keys from target catalogs
  enums       Add catalog keys to Java enum constants
  auth        Manage oracle endpoint credentials

The oracle is any OpenAI-compatible endpoint (Ollama, OpenAI, vLLM, ...).
Configure it once with 'i18n4j auth set' or via the OPENAI_API_KEY /
OPENAI_API_BASE_URL / I18N4J_MODEL environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newExtractCmd(),
		newTranslateCmd(),
		newCleanCmd(),
		newEnumsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("i18n4j version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: project info + catalog coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project info and catalog coverage",
		Long: `Show the auto-detected project structure and per-language catalog coverage.

Displays the Maven project name and version, the source catalog path,
detected modules and target languages, and how many entries each target
catalog already translates. Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}

	return cmd
}

func runStatus() {
	proj, cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	// Project info header
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Name:"), proj.Name)
	fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Version:"), proj.Version)
	fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Root:"), proj.Root)
	if cfg != nil {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Config:"), config.FileName)
	}
	fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Catalog:"), relPath(proj.Root, proj.CatalogPath))

	srcMeta := langmeta.Resolve(proj.SourceLang)
	if srcMeta.Name != "" {
		fmt.Fprintf(os.Stderr, "  %-11s %s (%s)\n", i18n.T("Source:"), proj.SourceLang, srcMeta.Name)
	} else {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Source:"), proj.SourceLang)
	}

	if len(proj.Modules) > 0 {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Modules:"), strings.Join(proj.Modules, ", "))
	}
	if len(proj.Languages) > 0 {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", i18n.T("Languages:"), strings.Join(proj.Languages, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "  %-11s none detected\n", i18n.T("Languages:"))
	}

	fmt.Fprintln(os.Stderr)

	if !fileExists(proj.CatalogPath) {
		logInfo("%s", i18n.T("no catalog yet (run 'i18n4j extract' first)"))
		printSuggestedCommands(false, false)
		return
	}

	source, err := propfile.ParseFile(proj.CatalogPath)
	if err != nil {
		logError("Reading %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}
	for _, w := range source.Warnings {
		logWarning("%s: %s", relPath(proj.Root, proj.CatalogPath), w)
	}

	srcTotal := 0
	for _, e := range source.Entries() {
		if e.Value != "" {
			srcTotal++
		}
	}

	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, i18n.T("Coverage"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  %s %d\n", i18n.T("Total entries:"), srcTotal)

	hasGaps := len(proj.Languages) == 0
	if srcTotal > 0 && len(proj.Languages) > 0 {
		fmt.Fprintln(os.Stderr)
		width := langColumnWidth(proj.Languages)
		for _, lang := range proj.Languages {
			target, err := propfile.ParseFile(proj.LangCatalogPath(lang))
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s missing\n", langCell(lang, width))
				hasGaps = true
				continue
			}

			translated := 0
			for _, e := range source.Entries() {
				if e.Value == "" {
					continue
				}
				if v, ok := target.Get(e.Key); ok && v != "" {
					translated++
				}
			}
			percent := translated * 100 / srcTotal
			fmt.Fprintf(os.Stderr, "  %s %s  (%d/%d)\n",
				langCell(lang, width), progressBar(percent, 20), translated, srcTotal)
			if translated < srcTotal {
				hasGaps = true
			}
		}
	}

	fmt.Fprintln(os.Stderr)
	printSuggestedCommands(true, hasGaps)
}

func printSuggestedCommands(hasCatalog, hasGaps bool) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, i18n.T("Suggested commands:"), colorReset)
	if !hasCatalog {
		fmt.Fprintf(os.Stderr, "  i18n4j extract\n\n")
		return
	}
	fmt.Fprintf(os.Stderr, "  i18n4j extract\n")
	if hasGaps {
		fmt.Fprintf(os.Stderr, "  i18n4j translate\n")
	}
	fmt.Fprintln(os.Stderr)
}

// ---------------------------------------------------------------------------
// extract (scan sources, assign keys, update the source catalog)
// ---------------------------------------------------------------------------

type extractArgs struct {
	apiKey, baseURL, model string
	timeout                time.Duration
	keyAttempts            int
	noAI                   bool
	verbose                bool
}

func newExtractCmd() *cobra.Command {
	var a extractArgs

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan sources and update the source catalog",
		Long: `Scan the project tree for hardcoded natural-language strings and add
them to the source catalog (messages.properties).

Strings spread across concatenations, StringBuilder.append chains and
String.format calls are reconstructed into single values with {}
placeholders. Each new value gets a stable property key: the naming
oracle proposes one, and a deterministic key derived from the value is
used when no oracle is configured or its proposals keep colliding.
Values already in the catalog keep their keys.

The catalog is saved after every 100 processed values and on exit, so
an interrupted run loses at most the current value.

Examples:
  # Scan the current directory
  i18n4j extract

  # Deterministic keys only, no oracle calls
  i18n4j extract --no-ai

  # Scan another project against a local Ollama endpoint
  i18n4j extract --root ../shop --base-url http://localhost:11434`,
		Run: func(cmd *cobra.Command, args []string) {
			runExtract(a)
		},
	}

	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or OPENAI_API_KEY env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Oracle base URL (or OPENAI_API_BASE_URL env var)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (or I18N4J_MODEL env var)")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (0 = default)")
	cmd.Flags().IntVar(&a.keyAttempts, "key-attempts", 0, "Naming oracle attempts per value before fallback (0 = configured default)")
	cmd.Flags().BoolVar(&a.noAI, "no-ai", false, "Skip the naming oracle, derive keys from values only")
	cmd.Flags().BoolVar(&a.verbose, "verbose", false, "Log every scanned file and new entry")

	return cmd
}

func runExtract(a extractArgs) {
	proj, cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	applyOracleDefaults(&a.baseURL, &a.model, cfg)

	logInfo("Scanning %s for hardcoded strings...", proj.Root)

	files, err := merge.FindSources(proj.Root)
	if err != nil {
		logError("Scanning sources: %v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logError("No .java files found under %s", proj.Root)
		os.Exit(1)
	}
	logInfo("Found %d source files", len(files))

	table := merge.Collect(files, &merge.Options{
		OnProgress: func(done, total int, path string) {
			if a.verbose {
				logInfo("  [%d/%d] %s", done, total, relPath(proj.Root, path))
			}
		},
		OnWarning: func(msg string) {
			logWarning("%s", msg)
		},
	})
	if table.Len() == 0 {
		logInfo("No translatable strings found")
		return
	}
	logInfo("Collected %d distinct strings", table.Len())

	catalog, err := loadOrCreateCatalog(proj.CatalogPath)
	if err != nil {
		logError("Reading %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}
	for _, w := range catalog.Warnings {
		logWarning("%s: %s", relPath(proj.Root, proj.CatalogPath), w)
	}

	assigner := &keygen.Assigner{
		Root:        proj.Root,
		MaxAttempts: a.keyAttempts,
		OnLog: func(msg string) {
			logWarning("%s", msg)
		},
	}
	if assigner.MaxAttempts == 0 {
		assigner.MaxAttempts = proj.MaxKeyAttempts
	}
	if !a.noAI {
		assigner.Namer = newOracle(oracleArgs{
			apiKey:  a.apiKey,
			baseURL: a.baseURL,
			model:   a.model,
			timeout: a.timeout,
		}, proj)
	}

	if err := os.MkdirAll(filepath.Dir(proj.CatalogPath), 0755); err != nil {
		logError("Creating catalog directory: %v", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, saving progress...")
		cancel()
	}()

	added, processed := 0, 0
	interrupted := false
	for _, value := range table.Values {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		origin := table.Origins[value]
		key, err := assigner.Assign(ctx, value, origin.File, catalog)
		if err != nil {
			interrupted = true
			break
		}

		if _, ok := catalog.Get(key); !ok {
			catalog.Set(key, value)
			added++
			if a.verbose {
				logInfo("  + %s", key)
			}
		}

		processed++
		if processed%checkpointEvery == 0 {
			if err := catalog.Save(proj.CatalogPath); err != nil {
				logError("Saving %s: %v", proj.CatalogPath, err)
				os.Exit(1)
			}
		}
	}

	if err := catalog.Save(proj.CatalogPath); err != nil {
		logError("Saving %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}

	if interrupted {
		logWarning("Extraction interrupted, %d new entries saved to %s",
			added, relPath(proj.Root, proj.CatalogPath))
		os.Exit(0)
	}

	logSuccess("%s", i18n.T("Extraction complete"))
	logInfo("%s %d", i18n.T("New entries:"), added)
	logInfo("%s %d", i18n.T("Total entries:"), catalog.Len())
}

// loadOrCreateCatalog parses an existing catalog or starts a new one with
// the generator header.
func loadOrCreateCatalog(path string) (*propfile.File, error) {
	if fileExists(path) {
		return propfile.ParseFile(path)
	}
	return newCatalog(), nil
}

func newCatalog() *propfile.File {
	f := propfile.New()
	f.AppendComment("自动生成的国际化配置文件")
	f.AppendComment("Auto-generated i18n configuration file")
	f.AppendBlank()
	return f
}

// ---------------------------------------------------------------------------
// translate (fill target-language catalogs)
// ---------------------------------------------------------------------------

type translateArgs struct {
	langs                  string
	apiKey, baseURL, model string
	timeout                time.Duration
	attempts               int
	retranslate            bool
	dryRun                 bool
	verbose                bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Fill target-language catalogs using AI",
		Long: `Translate the source catalog into every target language.

For each target language a sibling catalog (messages_<lang>.properties)
is created or updated: entries that already carry a value are kept,
missing ones are sent to the translation oracle. Replies whose {}
placeholder count differs from the source are retried; after the
attempt ceiling the last reply is stored anyway and the entry is listed
in the placeholder-mismatch report for manual review.

Each catalog is saved after every 100 translated entries and on exit,
so an interrupted run resumes where it stopped.

Examples:
  # Translate into every detected language
  i18n4j translate

  # Specific languages only
  i18n4j translate --lang en,ja

  # Redo everything, e.g. after switching models
  i18n4j translate --lang en --retranslate

  # Show pending counts without calling the oracle
  i18n4j translate --dry-run`,
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(a)
		},
	}

	cmd.Flags().StringVar(&a.langs, "lang", "", "Languages to translate (comma-separated, default: all detected)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or OPENAI_API_KEY env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Oracle base URL (or OPENAI_API_BASE_URL env var)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (or I18N4J_MODEL env var)")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (0 = default)")
	cmd.Flags().IntVar(&a.attempts, "attempts", 0, "Oracle attempts per entry (0 = configured default)")
	cmd.Flags().BoolVar(&a.retranslate, "retranslate", false, "Re-translate entries that already have a value")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Show what would be translated without calling the oracle")
	cmd.Flags().BoolVar(&a.verbose, "verbose", false, "Log every translated entry")

	return cmd
}

func runTranslate(a translateArgs) {
	proj, cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	applyOracleDefaults(&a.baseURL, &a.model, cfg)

	if !fileExists(proj.CatalogPath) {
		logError("%s", i18n.T("no catalog yet (run 'i18n4j extract' first)"))
		os.Exit(1)
	}

	source, err := propfile.ParseFile(proj.CatalogPath)
	if err != nil {
		logError("Reading %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}
	for _, w := range source.Warnings {
		logWarning("%s: %s", relPath(proj.Root, proj.CatalogPath), w)
	}
	if source.Len() == 0 {
		logInfo("Source catalog is empty, nothing to translate")
		return
	}

	targets := splitLangs(a.langs)
	if len(targets) == 0 {
		targets = proj.Languages
	}
	targets = filterOutLang(targets, proj.SourceLang)
	if len(targets) == 0 {
		logError("No target languages: pass --lang or create %s_<lang>%s next to the catalog",
			proj.CatalogBase(), config.CatalogExt)
		os.Exit(1)
	}

	// Load target catalogs, creating fresh ones for new languages
	var tasks []translate.LangTask
	for _, lang := range targets {
		path := proj.LangCatalogPath(lang)
		var target *propfile.File
		if fileExists(path) {
			target, err = propfile.ParseFile(path)
			if err != nil {
				logError("Reading %s: %v", path, err)
				continue
			}
			for _, w := range target.Warnings {
				logWarning("%s: %s", relPath(proj.Root, path), w)
			}
		} else {
			target = newCatalog()
		}
		tasks = append(tasks, translate.LangTask{
			Lang:     lang,
			LangName: langmeta.EnglishName(lang),
			FilePath: path,
			File:     target,
			Source:   source,
		})
	}
	if len(tasks) == 0 {
		logError("No target catalogs to translate")
		os.Exit(1)
	}

	opts := translate.Options{
		MaxAttempts: a.attempts,
		Retranslate: a.retranslate,
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = proj.MaxTranslateAttempts
	}

	if a.dryRun {
		for _, task := range tasks {
			pending := translate.PendingKeys(task, opts)
			logInfo("%s (%s): %d entries to translate", task.Lang, task.LangName, len(pending))
		}
		return
	}

	// Setup signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, saving progress...")
		cancel()
	}()

	opts.Translator = newOracle(oracleArgs{
		apiKey:  a.apiKey,
		baseURL: a.baseURL,
		model:   a.model,
		timeout: a.timeout,
	}, proj)
	opts.OnProgress = func(done, total int, key string) {
		if a.verbose {
			logInfo("  %d/%d %s", done, total, key)
		}
	}
	opts.OnLog = func(format string, args ...any) {
		logInfo(format, args...)
	}
	opts.OnError = func(format string, args ...any) {
		logError(format, args...)
	}

	reports, err := translate.RunAll(ctx, tasks, opts)

	writeMismatchReport(proj, reports)

	if err != nil {
		if ctx.Err() != nil {
			logWarning("Translation interrupted, partial progress saved")
			os.Exit(0)
		}
		logError("Translation failed: %v", err)
		os.Exit(1)
	}

	logSuccess("%s", i18n.T("Translation complete"))
}

// writeMismatchReport persists placeholder mismatches next to the catalogs
// so they can be reviewed after the run. A clean run removes a stale report.
func writeMismatchReport(proj *config.Project, reports []translate.Report) {
	path := report.Path(proj.CatalogDir())

	file := report.FromRun(reports)
	if file.Total() == 0 {
		if fileExists(path) {
			_ = os.Remove(path)
		}
		return
	}

	for _, lang := range file.Languages {
		logWarning("%s: %d placeholder mismatch(es)", lang.Lang, len(lang.Entries))
	}
	if err := file.Save(path); err != nil {
		logWarning("Writing mismatch report: %v", err)
		return
	}
	logWarning("%s %d (see %s)", i18n.T("Placeholder mismatches:"), file.Total(), relPath(proj.Root, path))
}

// ---------------------------------------------------------------------------
// clean (drop placeholder keys from target catalogs)
// ---------------------------------------------------------------------------

func newCleanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop placeholder keys from target catalogs",
		Long: `Remove entries whose source value contains a {} placeholder from every
target-language catalog.

Placeholder values come from reconstructed string concatenations; some
teams keep those messages in code and want them out of the shipped
per-language catalogs. The source catalog itself is never modified.

Examples:
  # Show what would be removed
  i18n4j clean --dry-run

  # Remove placeholder keys from all sibling catalogs
  i18n4j clean`,
		Run: func(cmd *cobra.Command, args []string) {
			runClean(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List placeholder keys without removing them")

	return cmd
}

func runClean(dryRun bool) {
	proj, _, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	if !fileExists(proj.CatalogPath) {
		logError("%s", i18n.T("no catalog yet (run 'i18n4j extract' first)"))
		os.Exit(1)
	}

	source, err := propfile.ParseFile(proj.CatalogPath)
	if err != nil {
		logError("Reading %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}

	var keys []string
	for _, e := range source.Entries() {
		if translate.PlaceholderCount(e.Value) > 0 {
			keys = append(keys, e.Key)
		}
	}
	if len(keys) == 0 {
		logInfo("No placeholder keys in %s", relPath(proj.Root, proj.CatalogPath))
		return
	}

	logInfo("Found %d placeholder key(s) in %s", len(keys), relPath(proj.Root, proj.CatalogPath))
	if dryRun {
		for _, key := range keys {
			value, _ := source.Get(key)
			logInfo("  %s = %s", key, value)
		}
		return
	}

	siblings := config.SiblingCatalogs(proj.CatalogPath)
	if len(siblings) == 0 {
		logInfo("No sibling catalogs next to %s", relPath(proj.Root, proj.CatalogPath))
		return
	}

	langs := make([]string, 0, len(siblings))
	for lang := range siblings {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	totalRemoved, cleaned := 0, 0
	for _, lang := range langs {
		path := siblings[lang]
		target, err := propfile.ParseFile(path)
		if err != nil {
			logError("Reading %s: %v", path, err)
			continue
		}

		removed := 0
		for _, key := range keys {
			if target.Delete(key) {
				removed++
			}
		}
		if removed == 0 {
			continue
		}
		if err := target.Save(path); err != nil {
			logError("Saving %s: %v", path, err)
			os.Exit(1)
		}
		logSuccess("%s: removed %d key(s)", relPath(proj.Root, path), removed)
		totalRemoved += removed
		cleaned++
	}

	if totalRemoved == 0 {
		logInfo("Sibling catalogs already clean")
		return
	}
	logSuccess("Removed %d key(s) from %d catalog(s)", totalRemoved, cleaned)
}

// ---------------------------------------------------------------------------
// enums (add catalog keys to Java enum constants)
// ---------------------------------------------------------------------------

func newEnumsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "enums FILE...",
		Short: "Add catalog keys to Java enum constants",
		Long: `Rewrite Java enum constants to carry their catalog key.

For each constant of the form NAME("取消订单", ...) whose first string
argument is a catalogued value, the matching property key is inserted
as a second string argument: NAME("取消订单", "order.cancel", ...).
Constants already carrying their key are left alone. A numbered .backup
copy of each modified file is written first.

Examples:
  i18n4j enums src/main/java/com/shop/OrderStatus.java

  # Preview without writing
  i18n4j enums --dry-run src/main/java/com/shop/OrderStatus.java`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runEnums(args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")

	return cmd
}

func runEnums(paths []string, dryRun bool) {
	proj, _, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	if !fileExists(proj.CatalogPath) {
		logError("%s", i18n.T("no catalog yet (run 'i18n4j extract' first)"))
		os.Exit(1)
	}

	source, err := propfile.ParseFile(proj.CatalogPath)
	if err != nil {
		logError("Reading %s: %v", proj.CatalogPath, err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		var res *enumfile.Result
		var err error
		if dryRun {
			res, err = enumfile.Preview(path, source)
		} else {
			res, err = enumfile.PatchFile(path, source)
		}
		if err != nil {
			logError("%s: %v", path, err)
			failed++
			continue
		}

		for _, c := range res.Patched {
			logInfo("  %s: %s", c.Name, c.Key)
		}
		for _, c := range res.Missing {
			logWarning("  %s: no catalog key for %q", c.Name, c.Value)
		}

		switch {
		case len(res.Patched) == 0:
			logInfo("%s: nothing to patch (%d constant(s) already keyed)", path, res.Skipped)
		case dryRun:
			logInfo("%s: %d constant(s) would be patched", path, len(res.Patched))
		default:
			logSuccess("%s: %d constant(s) patched (backup: %s)",
				path, len(res.Patched), filepath.Base(res.Backup))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// auth (manage oracle endpoint credentials)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage oracle endpoint credentials",
		Long: `Manage the stored credentials for the translation oracle.

The oracle is any OpenAI-compatible endpoint: OpenAI itself, a local
Ollama server, vLLM, a corporate proxy. Credentials are stored in
~/.local/share/i18n4j/auth.json with 0600 permissions.

Environment variables override the stored values:
  OPENAI_API_KEY        API key
  OPENAI_API_BASE_URL   endpoint base URL
  I18N4J_MODEL          model name

Examples:
  i18n4j auth set      Store endpoint URL, API key and model
  i18n4j auth show     Show the stored credentials
  i18n4j auth clear    Remove the stored credentials`,
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthShowCmd(),
		newAuthClearCmd(),
	)

	return cmd
}

func newAuthSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store oracle endpoint credentials",
		Long: `Store the oracle endpoint URL, API key and model interactively.

Press Enter at any prompt to keep the current value. The API key may be
left empty for endpoints that do not require one (e.g. local Ollama).`,
		Run: func(cmd *cobra.Command, args []string) {
			runAuthSet()
		},
	}
}

func runAuthSet() {
	fmt.Fprintf(os.Stderr, "\n%sOracle Endpoint Setup%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)

	scanner := bufio.NewScanner(os.Stdin)
	existing := settings.Load()

	// Base URL
	if existing.BaseURL != "" {
		fmt.Fprintf(os.Stderr, "  Current endpoint: %s%s%s\n", colorYellow, existing.BaseURL, colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new endpoint URL, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter endpoint URL (default %s): ", settings.DefaultBaseURL)
	}
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	baseURL := strings.TrimSpace(scanner.Text())
	if baseURL == "" {
		baseURL = existing.BaseURL
	}

	// API key (optional for local endpoints)
	if existing.Key != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing.Key), colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new API key, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key (or press Enter if not required): ")
	}
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	apiKey := strings.TrimSpace(scanner.Text())
	if apiKey == "" {
		apiKey = existing.Key
	}

	// Model
	if existing.Model != "" {
		fmt.Fprintf(os.Stderr, "  Current model: %s%s%s\n", colorYellow, existing.Model, colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new model name, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter model name (default %s): ", provider.DefaultModel)
	}
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	model := strings.TrimSpace(scanner.Text())
	if model == "" {
		model = existing.Model
	}

	creds := &settings.Credentials{Key: apiKey, BaseURL: baseURL, Model: model}
	if creds.IsEmpty() {
		logError("Nothing to store")
		os.Exit(1)
	}
	if err := settings.Save(creds); err != nil {
		logError("Failed to save credentials: %v", err)
		os.Exit(1)
	}

	logSuccess("Oracle credentials saved")
	fmt.Fprintf(os.Stderr, "\n  File: %s\n\n", settings.FilePath())
}

func newAuthShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored credentials and environment overrides",
		Run: func(cmd *cobra.Command, args []string) {
			runAuthShow()
		},
	}
}

func runAuthShow() {
	fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	creds := settings.Load()
	if creds.IsEmpty() {
		fmt.Fprintf(os.Stderr, "\n  %snot configured%s (run 'i18n4j auth set')\n", colorRed, colorReset)
	} else {
		fmt.Fprintln(os.Stderr)
		if creds.BaseURL != "" {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", "Endpoint:", creds.BaseURL)
		}
		if creds.Key != "" {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", "API key:", settings.MaskKey(creds.Key))
		}
		if creds.Model != "" {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", "Model:", creds.Model)
		}
	}

	fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
	envKey := os.Getenv(settings.EnvAPIKey)
	if envKey != "" {
		envKey = settings.MaskKey(envKey)
	}
	printEnvStatus(settings.EnvAPIKey, envKey)
	printEnvStatus(settings.EnvBaseURL, os.Getenv(settings.EnvBaseURL))
	printEnvStatus(settings.EnvModel, os.Getenv(settings.EnvModel))

	fmt.Fprintf(os.Stderr, "\n  File: %s\n\n", settings.FilePath())
}

func printEnvStatus(name, value string) {
	if value != "" {
		fmt.Fprintf(os.Stderr, "  %-21s %s%s%s (overrides stored value)\n", name+":", colorGreen, value, colorReset)
	} else {
		fmt.Fprintf(os.Stderr, "  %-21s %snot set%s\n", name+":", colorRed, colorReset)
	}
}

func newAuthClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			if err := settings.Remove(); err != nil {
				logError("Failed to remove credentials: %v", err)
				os.Exit(1)
			}
			logSuccess("Stored credentials removed")
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

type oracleArgs struct {
	apiKey, baseURL, model string
	timeout                time.Duration
}

// newOracle builds the OpenAI-compatible client from flags, environment
// variables and the stored credentials, in that order.
func newOracle(a oracleArgs, proj *config.Project) *provider.Client {
	return provider.New(provider.Config{
		BaseURL:    settings.ResolveBaseURL(a.baseURL),
		APIKey:     settings.ResolveAPIKey(a.apiKey),
		Model:      settings.ResolveModel(a.model),
		SourceName: langmeta.EnglishName(proj.SourceLang),
		Timeout:    a.timeout,
	})
}

// applyOracleDefaults lets i18n4j.yaml provide defaults for the oracle
// flags. Explicit flags and environment variables still win.
func applyOracleDefaults(baseURL, model *string, cfg *config.File) {
	if cfg == nil {
		return
	}
	if *baseURL == "" && os.Getenv(settings.EnvBaseURL) == "" && cfg.BaseURL != "" {
		*baseURL = cfg.BaseURL
	}
	if *model == "" && os.Getenv(settings.EnvModel) == "" && cfg.Model != "" {
		*model = cfg.Model
	}
}

// progressBar renders a colored bar for percent, clamped to 0-100.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset +
		fmt.Sprintf(" %3d%%", percent)
}

// langCell renders a language code with its flag, padded to width.
func langCell(lang string, width int) string {
	cell := fmt.Sprintf("%-*s", width, lang)
	if flag := langmeta.Resolve(lang).Flag; flag != "" {
		return flag + " " + cell
	}
	return "   " + cell
}

// langColumnWidth returns the widest language code, for column alignment.
func langColumnWidth(langs []string) int {
	width := 0
	for _, lang := range langs {
		if len(lang) > width {
			width = len(lang)
		}
	}
	return width
}

// splitLangs parses a comma-separated language list, dropping empties.
func splitLangs(s string) []string {
	var langs []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// filterOutLang returns langs without every occurrence of exclude.
func filterOutLang(langs []string, exclude string) []string {
	var out []string
	for _, lang := range langs {
		if lang != exclude {
			out = append(out, lang)
		}
	}
	return out
}

// fileExists returns true if the file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// relPath renders path relative to root for display. Paths outside root
// are returned unchanged.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
