// Package translate rewrites source-file comments into a target language
// using an HTTP translation backend.
//
// Files are independent units of work: a bounded worker pool processes one
// file per worker end-to-end (extract, filter by source language, one API
// call per comment, replace, write back). Within a file, comments are
// translated sequentially. A failed call for one comment leaves that
// comment untranslated and the file proceeds; a failed file is counted and
// does not affect the others.
package translate

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/srctools/comtrans/comment"
	"github.com/srctools/comtrans/langdetect"
	"github.com/srctools/comtrans/langmeta"
)

// DefaultSystemPrompt is the fixed translation instruction. {{targetLang}}
// is substituted with the target language's display name.
const DefaultSystemPrompt = `You are a code comment translator. Translate the following code comments to {{targetLang}}. Maintain the same meaning and technical accuracy. Return only the translated text without any explanations or additional formatting.`

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls the translation run.
type Options struct {
	// Provider is the translation backend configuration.
	Provider Provider
	// TargetLanguage is the language code comments are translated into.
	TargetLanguage string
	// TargetLanguageName overrides the display name substituted into the
	// system prompt; resolved from TargetLanguage when empty.
	TargetLanguageName string
	// SourceLanguage restricts translation to comments detected as this
	// language; "" or "any" translates everything.
	SourceLanguage string
	// Statistical selects the statistical language detector instead of
	// the pure heuristic.
	Statistical bool
	// Workers is the number of files processed concurrently (min 1).
	Workers int
	// RequestDelay is an optional pause between API calls within a file.
	RequestDelay time.Duration
	// MaxRetries is the retry budget per API call. Default: 3.
	MaxRetries int
	// SystemPrompt overrides the default system prompt.
	SystemPrompt string
	// OnProgress is called after each file completes.
	OnProgress func(done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
	// Verbose enables detailed logging.
	Verbose bool
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

func (o *Options) effectiveWorkers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 1
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

func (o *Options) resolvedPrompt() string {
	prompt := o.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	name := o.TargetLanguageName
	if name == "" {
		name = langmeta.PromptName(o.TargetLanguage)
	}
	return strings.ReplaceAll(prompt, "{{targetLang}}", name)
}

// detect runs the configured language detector.
func (o *Options) detect(text string) langdetect.Language {
	if o.Statistical {
		return langdetect.DetectStatistical(text)
	}
	return langdetect.Detect(text)
}

// shouldTranslate applies the source-language filter to comment text.
func (o *Options) shouldTranslate(text string) bool {
	src := strings.ToLower(strings.TrimSpace(o.SourceLanguage))
	if src == "" || src == langdetect.Any {
		return true
	}
	return o.detect(text) == langdetect.Language(src)
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// FileResult reports the outcome for one file.
type FileResult struct {
	// Path is the processed file.
	Path string
	// Matched is the number of comments that passed the source-language
	// filter.
	Matched int
	// Skipped is the number of comments filtered out by language.
	Skipped int
	// Translated is the number of comments actually rewritten.
	Translated int
	// Err is set when the file as a whole failed (read or write error).
	Err error
}

// Summary aggregates results into success/failure counts.
func Summary(results []FileResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// TranslateFiles translates the comments of each file on a bounded worker
// pool and rewrites the files in place. Completion order across files is
// unconstrained. The returned slice is indexed like files.
func TranslateFiles(ctx context.Context, files []string, opts Options) []FileResult {
	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return results
	}

	rl := &rateLimitState{}
	var done int64

	g := new(errgroup.Group)
	g.SetLimit(opts.effectiveWorkers())

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = translateFile(ctx, path, rl, opts)
			n := atomic.AddInt64(&done, 1)
			if opts.OnProgress != nil {
				opts.OnProgress(int(n), len(files))
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; failures live in results
	return results
}

// translateFile processes a single file end-to-end.
func translateFile(ctx context.Context, path string, rl *rateLimitState, opts Options) FileResult {
	res := FileResult{Path: path}

	records, err := comment.ExtractFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	if len(records) == 0 {
		return res
	}

	var lines []int
	for line, rec := range records {
		if opts.shouldTranslate(rec.Content) {
			lines = append(lines, line)
		} else {
			res.Skipped++
		}
	}
	sort.Ints(lines)
	res.Matched = len(lines)
	if len(lines) == 0 {
		return res
	}

	systemPrompt := opts.resolvedPrompt()
	translations := make(map[int]string, len(lines))

	for i, line := range lines {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return res
		}

		rec := records[line]
		text, err := callProvider(ctx, opts.Provider, systemPrompt,
			buildUserPrompt(rec.Content), rl, opts.effectiveMaxRetries(), opts.Verbose)
		if err != nil {
			if ctx.Err() != nil {
				res.Err = ctx.Err()
				return res
			}
			// Keep the original comment and carry on.
			opts.logError("%s:%d: translation failed, keeping original: %v", path, line, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if rec.Kind == comment.Inline && strings.Contains(text, "\n") {
			opts.log("%s:%d: multi-line translation for inline comment, keeping first line", path, line)
			text = strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
		}

		translations[line] = text

		if i < len(lines)-1 && opts.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
				return res
			case <-time.After(opts.RequestDelay):
			}
		}
	}

	if len(translations) == 0 {
		return res
	}

	if _, err := comment.ReplaceFile(path, translations); err != nil {
		res.Err = err
		return res
	}
	res.Translated = len(translations)
	return res
}

// buildUserPrompt strips comment markers and frames the text for the API.
func buildUserPrompt(content string) string {
	return "Instruction: output only the translated result, nothing else.\n" +
		"Code comment to translate:\n" + comment.CleanMarkers(content)
}
