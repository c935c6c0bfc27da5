// comtrans — translates source code comments between languages using AI providers.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srctools/comtrans/comment"
	"github.com/srctools/comtrans/config"
	"github.com/srctools/comtrans/i18n"
	"github.com/srctools/comtrans/langdetect"
	"github.com/srctools/comtrans/langmeta"
	"github.com/srctools/comtrans/scan"
	"github.com/srctools/comtrans/translate"
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

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	cfgPath string
	verbose bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "comtrans",
		Short: "Translate source code comments using AI",
		Long: `comtrans — translates source code comments between languages using AI.

Scans Python, C, C++ and JavaScript files, extracts inline comments,
block comments and docstrings, detects their language, and rewrites
them in the configured target language while preserving formatting.

Commands:
  scan         List translatable source files under a path
  comments     Show extracted comments with detected languages
  translate    Translate comments in place
  interactive  Review and translate comments file by file

Providers (openai.provider in config.yaml):
  custom-openai  OpenAI-compatible endpoint (default)
  google         Google AI (Gemini) — API key
  groq           Groq — API key
  anthropic      Anthropic — API key
  ollama         Ollama local server (no key)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultFileName, "Configuration file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable detailed logging")

	root.AddCommand(
		newScanCmd(),
		newCommentsCmd(),
		newTranslateCmd(),
		newInteractiveCmd(),
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
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("comtrans version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// loadConfig reads the configuration and reports non-fatal warnings.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	for _, w := range cfg.Warnings {
		logWarning("%s", w)
	}
	if verbose {
		logInfo(i18n.T("Configuration loaded from %s"), cfgPath)
	}
	return cfg
}

// buildProvider merges provider defaults with configuration overrides.
func buildProvider(cfg *config.Config) (translate.Provider, error) {
	id := cfg.OpenAI.Provider
	if id == "" {
		id = translate.ProviderCustomOpenAI
	}

	prov, ok := translate.DefaultProviders()[id]
	if !ok {
		// Unknown IDs are treated as OpenAI-compatible endpoints.
		prov = translate.DefaultProviders()[translate.ProviderCustomOpenAI]
		prov.ID = id
		prov.Name = id
	}

	if cfg.OpenAI.BaseURL != "" {
		prov.BaseURL = cfg.OpenAI.BaseURL
	}
	if cfg.OpenAI.ModelName != "" {
		prov.Model = cfg.OpenAI.ModelName
	}
	prov.APIKey = cfg.OpenAI.APIKey
	prov.Proxy = cfg.OpenAI.Proxy

	if cfg.OpenAI.Timeout != "" {
		timeout, err := cfg.Timeout()
		if err != nil {
			return prov, err
		}
		prov.Timeout = timeout
	}

	if prov.APIKey == "" && translate.RequiresAPIKey(prov.ID) {
		return prov, fmt.Errorf("provider %s requires an API key (openai.api_key)", prov.ID)
	}
	return prov, nil
}

// buildOptions maps the configuration onto engine options.
func buildOptions(cfg *config.Config, prov translate.Provider) (translate.Options, error) {
	delay, err := cfg.RequestDelay()
	if err != nil {
		return translate.Options{}, err
	}

	return translate.Options{
		Provider:       prov,
		TargetLanguage: cfg.Translation.TargetLanguage,
		SourceLanguage: cfg.Translation.SourceLanguage,
		Statistical:    cfg.Translation.Detector == config.DetectorStatistical,
		Workers:        cfg.Translation.MaxWorkers,
		RequestDelay:   delay,
		MaxRetries:     cfg.Translation.MaxRetries,
		Verbose:        verbose,
		OnLog: func(format string, args ...any) {
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			logError(format, args...)
		},
	}, nil
}

// findFiles scans the target with the configured include/exclude globs.
func findFiles(cfg *config.Config, target string) []string {
	logInfo(i18n.T("Scanning %s"), target)
	files, err := scan.Find(target, scan.Filter{
		Include: cfg.Scan.Include,
		Exclude: cfg.Scan.Exclude,
	})
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	return files
}

// signalContext returns a context cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted")
		cancel()
	}()
	return ctx, cancel
}

// confirm asks a yes/no question on stdin; anything but y/yes declines.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// firstLine returns the first line of s, trimmed and truncated for display.
func firstLine(s string, maxLen int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if maxLen > 0 && len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// pageBounds returns the half-open [start, end) slice range for a page.
func pageBounds(total, page, size int) (int, int) {
	start := page * size
	if start >= total {
		return total, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// ---------------------------------------------------------------------------
// scan (list translatable files)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path]",
		Short: "List translatable source files under a path",
		Long: `List supported source files (.py, .c, .cpp, .js) under a path.

Honors the include/exclude glob patterns from the scan section of the
configuration file. Dependency and VCS directories are always skipped.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			files := findFiles(cfg, targetArg(args))

			if len(files) == 0 {
				logInfo(i18n.T("No supported source files found"))
				return
			}

			for _, f := range files {
				fmt.Println(f)
			}
			logSuccess(i18n.N("Found %d source file", "Found %d source files", len(files)), len(files))
			logInfo("%s", scan.DescribeFiles(files))
		},
	}
}

// ---------------------------------------------------------------------------
// comments (show extracted comments)
// ---------------------------------------------------------------------------

func newCommentsCmd() *cobra.Command {
	var sourceLang string

	cmd := &cobra.Command{
		Use:   "comments [path]",
		Short: "Show extracted comments with detected languages",
		Long: `Extract and display comments from supported source files.

Each comment is shown with its line number, kind (inline, multiline,
docstring) and detected language. With --source-lang only comments in
that language are listed.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if sourceLang == "" {
				sourceLang = cfg.Translation.SourceLanguage
			}
			runComments(cfg, targetArg(args), sourceLang)
		},
	}

	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Only show comments in this language (zh, jp, en)")
	return cmd
}

func runComments(cfg *config.Config, target, sourceLang string) {
	files := findFiles(cfg, target)
	if len(files) == 0 {
		logInfo(i18n.T("No supported source files found"))
		return
	}

	statistical := cfg.Translation.Detector == config.DetectorStatistical
	total := 0

	for _, path := range files {
		records, err := comment.ExtractFile(path)
		if err != nil {
			logError("%s: %v", path, err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		shown := 0
		for _, line := range sortedLines(records) {
			rec := records[line]
			lang := detectLang(rec.Content, statistical)
			if sourceLang != "" && sourceLang != langdetect.Any && lang != langdetect.Language(sourceLang) {
				continue
			}
			if shown == 0 {
				fmt.Printf("\n%s%s%s\n", colorBlue, path, colorReset)
			}
			langLabel := string(lang)
			if langLabel == "" {
				langLabel = "?"
			}
			fmt.Printf("  %4d  %-10s %-3s %s\n", line, rec.Kind, langLabel, firstLine(rec.Content, 70))
			shown++
		}
		total += shown
	}

	fmt.Println()
	if total == 0 {
		logInfo(i18n.T("No comments found"))
		return
	}
	logSuccess("%d comments", total)
}

func detectLang(text string, statistical bool) langdetect.Language {
	if statistical {
		return langdetect.DetectStatistical(text)
	}
	return langdetect.Detect(text)
}

func sortedLines(records map[int]comment.Record) []int {
	lines := make([]int, 0, len(records))
	for line := range records {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		targetLang string
		sourceLang string
		workers    int
		dryRun     bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "translate [path]",
		Short: "Translate comments in place",
		Long: `Translate comments of all supported source files under a path.

Files are rewritten in place with original formatting preserved. Each
file is processed independently; a failing file does not stop the run.

Examples:
  # Translate everything under the current directory
  comtrans translate

  # Translate a single file into German
  comtrans translate src/app.py --target-lang de

  # Only translate Chinese comments, four files at a time
  comtrans translate src --source-lang zh --workers 4

  # Show what would be translated without calling the API
  comtrans translate --dry-run`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if targetLang != "" {
				cfg.Translation.TargetLanguage = targetLang
			}
			if sourceLang != "" {
				cfg.Translation.SourceLanguage = sourceLang
			}
			if workers > 0 {
				cfg.Translation.MaxWorkers = workers
			}
			runTranslate(cfg, targetArg(args), dryRun, yes)
		},
	}

	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language code (overrides config)")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Only translate comments in this language (zh, jp, en, any)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of files processed concurrently (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be translated without calling the API")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runTranslate(cfg *config.Config, target string, dryRun, yes bool) {
	prov, err := buildProvider(cfg)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	opts, err := buildOptions(cfg, prov)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	files := findFiles(cfg, target)
	if len(files) == 0 {
		logInfo(i18n.T("No supported source files found"))
		return
	}
	logSuccess(i18n.N("Found %d source file", "Found %d source files", len(files)), len(files))

	if dryRun {
		runDryRun(files, opts)
		return
	}

	logInfo("Provider: %s, Model: %s", prov.Name, prov.Model)
	logInfo(i18n.T("Translating comments to %s"), langmeta.PromptName(opts.TargetLanguage))

	if !yes && !confirm(fmt.Sprintf("Rewrite %d files in place?", len(files))) {
		logInfo(i18n.T("Bye"))
		return
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts.OnProgress = func(done, total int) {
		logInfo("  progress: %d/%d", done, total)
	}

	results := translate.TranslateFiles(ctx, files, opts)
	if ctx.Err() != nil {
		logWarning("Translation interrupted, partial progress saved")
		os.Exit(130)
	}

	succeeded, failed := translate.Summary(results)
	for _, res := range results {
		if res.Err != nil {
			logError("%s: %v", res.Path, res.Err)
		}
	}

	logSuccess(i18n.N("%d file processed", "%d files processed", succeeded), succeeded)
	if failed > 0 {
		logError(i18n.N("%d file failed", "%d files failed", failed), failed)
		os.Exit(1)
	}
}

func runDryRun(files []string, opts translate.Options) {
	totalMatched := 0
	for _, path := range files {
		records, err := comment.ExtractFile(path)
		if err != nil {
			logError("%s: %v", path, err)
			continue
		}
		matched := 0
		for _, rec := range records {
			if shouldTranslateRec(rec.Content, opts) {
				matched++
			}
		}
		if matched > 0 {
			logInfo("%s: %d comments to translate", path, matched)
			totalMatched += matched
		}
	}
	if totalMatched == 0 {
		logInfo(i18n.T("No comments found"))
		return
	}
	logSuccess("%d comments to translate in total", totalMatched)
}

func shouldTranslateRec(text string, opts translate.Options) bool {
	src := strings.ToLower(strings.TrimSpace(opts.SourceLanguage))
	if src == "" || src == langdetect.Any {
		return true
	}
	return detectLang(text, opts.Statistical) == langdetect.Language(src)
}

// ---------------------------------------------------------------------------
// interactive (review and translate file by file)
// ---------------------------------------------------------------------------

const pageSize = 10

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive [path]",
		Short: "Review and translate comments file by file",
		Long: `Walk through matching comments of each file and decide per file.

Commands inside the session:
  y        translate the current file and move on
  next     next page, or the next file on the last page
  back     previous page
  show N   print comment N of the current page in full
  quit     leave the session`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			runInteractive(cfg, targetArg(args))
		},
	}
}

func runInteractive(cfg *config.Config, target string) {
	prov, err := buildProvider(cfg)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	opts, err := buildOptions(cfg, prov)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	files := findFiles(cfg, target)
	if len(files) == 0 {
		logInfo(i18n.T("No supported source files found"))
		return
	}
	logSuccess(i18n.N("Found %d source file", "Found %d source files", len(files)), len(files))
	logInfo("%s", scan.DescribeFiles(files))

	ctx, cancel := signalContext()
	defer cancel()

	reader := bufio.NewReader(os.Stdin)
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if !reviewFile(ctx, reader, path, opts) {
			break
		}
	}
	logInfo(i18n.T("Bye"))
}

// reviewFile pages through one file's matching comments. Returns false
// when the session should end.
func reviewFile(ctx context.Context, reader *bufio.Reader, path string, opts translate.Options) bool {
	records, err := comment.ExtractFile(path)
	if err != nil {
		logError("%s: %v", path, err)
		return true
	}

	var lines []int
	for line, rec := range records {
		if shouldTranslateRec(rec.Content, opts) {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return true
	}
	sort.Ints(lines)

	page := 0
	for {
		start, end := pageBounds(len(lines), page, pageSize)
		fmt.Printf("\n%s%s%s — %d comments (page %d/%d)\n",
			colorBlue, path, colorReset, len(lines), page+1, pageCount(len(lines)))
		for i := start; i < end; i++ {
			rec := records[lines[i]]
			fmt.Printf("  [%d] line %d (%s): %s\n", i-start+1, lines[i], rec.Kind, firstLine(rec.Content, 70))
		}

		fmt.Print("translate this file? [y/next/back/show N/quit]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		input = strings.TrimSpace(input)

		switch {
		case input == "y":
			results := translate.TranslateFiles(ctx, []string{path}, opts)
			if res := results[0]; res.Err != nil {
				logError("%s: %v", path, res.Err)
			} else {
				logSuccess("%s: %d comments translated", path, res.Translated)
			}
			return ctx.Err() == nil

		case input == "next" || input == "":
			if end >= len(lines) {
				return true // last page, move to the next file
			}
			page++

		case input == "back":
			if page > 0 {
				page--
			}

		case strings.HasPrefix(input, "show "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, "show ")))
			if err != nil || n < 1 || n > end-start {
				logWarning("no comment %q on this page", strings.TrimPrefix(input, "show "))
				continue
			}
			rec := records[lines[start+n-1]]
			lang := detectLang(rec.Content, opts.Statistical)
			fmt.Printf("\nline %d, %s, language %q:\n%s\n", rec.Line, rec.Kind, lang, rec.Original)

		case input == "quit" || input == "q":
			return false

		default:
			logWarning(i18n.T("Unknown command: %s"), input)
		}
	}
}

func pageCount(total int) int {
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
