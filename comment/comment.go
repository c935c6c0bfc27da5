// Package comment locates, extracts, and rewrites comments in source files.
//
// Extraction is lexical, not grammatical: a regex pass per comment family
// plus a quote-tracking scan that keeps string literals from being
// mistaken for comments. Two extractor variants cover the supported
// languages: CStyle (.c, .cpp, .js) and PythonStyle (.py). Extractors are
// registered per file extension in a read-only table; files with an
// unknown extension simply yield no comments.
package comment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Kind classifies a comment.
type Kind string

const (
	// Inline is a line-terminated comment (// or #), with or without
	// preceding code on the same line.
	Inline Kind = "inline"
	// Multiline is a C-style /* ... */ block.
	Multiline Kind = "multiline"
	// Docstring is a Python triple-quoted string in a documentation
	// position.
	Docstring Kind = "docstring"
)

// Record describes one extracted comment, keyed by its starting line.
type Record struct {
	// Line is the 1-based line number where the comment starts.
	Line int
	// Content is the comment text with markers stripped and trimmed.
	Content string
	// StartCol is the byte column of the comment marker within its line.
	StartCol int
	// EndCol is the end of the comment: for inline comments the length of
	// the line, for multiline/docstring comments the absolute end offset
	// within the file content.
	EndCol int
	// Original is the verbatim comment including markers.
	Original string
	// Kind is the comment classification.
	Kind Kind
	// HasCode reports whether non-whitespace code precedes an inline
	// comment marker on the same line.
	HasCode bool
	// Quote is the opening quote run for docstrings (""" or ''').
	Quote string
	// LineSpan is the number of lines the comment covers
	// (multiline/docstring only; inline comments span one line).
	LineSpan int
}

// Extractor is the per-language comment engine.
//
// Extract returns at most one record per starting line; when several
// inline comments share a line, the last match wins. Extraction is
// idempotent: the same content always yields the same records.
//
// Replace substitutes translations keyed by starting line number and
// returns the rewritten content. Lines are processed in descending order
// and records are re-extracted before each edit, so multi-line
// substitutions cannot shift the positions of lines not yet processed.
// Content outside the replaced spans is preserved byte for byte.
type Extractor interface {
	Extract(content string) map[int]Record
	Replace(content string, translations map[int]string) string
}

// ---------------------------------------------------------------------------
// Extension registry
// ---------------------------------------------------------------------------

// extractors maps file extensions to their comment extractor. Initialized
// once; never mutated after startup.
var extractors = map[string]Extractor{
	".c":   CStyle{},
	".cpp": CStyle{},
	".js":  CStyle{},
	".py":  PythonStyle{},
}

// ForExtension returns the extractor registered for a file extension.
func ForExtension(ext string) (Extractor, bool) {
	ex, ok := extractors[ext]
	return ex, ok
}

// ForFile returns the extractor for a file path based on its extension.
func ForFile(path string) (Extractor, bool) {
	return ForExtension(filepath.Ext(path))
}

// SupportedExtensions returns the sorted list of registered extensions.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ---------------------------------------------------------------------------
// Quote-tracking scanner
// ---------------------------------------------------------------------------

// InString reports whether the end of fragment falls inside a single- or
// double-quoted string literal. The scan toggles independent quote states:
// a quote of one kind does not toggle while inside the other kind. A
// backslash escapes exactly the next character.
//
// The scanner does not understand triple-quoted strings or raw-string
// prefixes; callers that care exclude those spans separately.
func InString(fragment string) bool {
	var inSingle, inDouble bool
	for i := 0; i < len(fragment); i++ {
		switch fragment[i] {
		case '\\':
			i++ // skip escaped character
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		}
	}
	return inSingle || inDouble
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// span is a half-open [start, end) byte range within file content.
type span struct {
	start, end int
}

func inSpans(spans []span, pos int) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

// lineOf returns the 1-based line number of offset pos in content.
func lineOf(content string, pos int) int {
	return strings.Count(content[:pos], "\n") + 1
}

// linePrefix returns the text on pos's line that precedes pos.
func linePrefix(content string, pos int) string {
	nl := strings.LastIndexByte(content[:pos], '\n')
	return content[nl+1 : pos]
}

// indentWidth counts leading whitespace bytes.
func indentWidth(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// descendingLines returns the translation keys sorted high-to-low.
func descendingLines(translations map[int]string) []int {
	lines := make([]int, 0, len(translations))
	for ln := range translations {
		lines = append(lines, ln)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lines)))
	return lines
}

// splice replaces count lines starting at index at with repl.
func splice(lines []string, at, count int, repl []string) []string {
	if at < 0 || at >= len(lines) {
		return lines
	}
	if at+count > len(lines) {
		count = len(lines) - at
	}
	out := make([]string, 0, len(lines)-count+len(repl))
	out = append(out, lines[:at]...)
	out = append(out, repl...)
	out = append(out, lines[at+count:]...)
	return out
}

// ---------------------------------------------------------------------------
// C-style extractor (.c, .cpp, .js)
// ---------------------------------------------------------------------------

// CStyle extracts /* ... */ blocks and // line comments.
type CStyle struct{}

var (
	blockRe     = regexp.MustCompile(`(?s)/\*.*?\*/`)
	blockHeadRe = regexp.MustCompile(`^/\*[\s*]*`)
	blockTailRe = regexp.MustCompile(`\*/\s*$`)
	blockStarRe = regexp.MustCompile(`(?m)^\s*\*\s?`)
)

// Extract implements Extractor.
func (CStyle) Extract(content string) map[int]Record {
	records := make(map[int]Record)

	// Multiline /* ... */ blocks first; their spans suppress // matches.
	var claimed []span
	for _, loc := range blockRe.FindAllStringIndex(content, -1) {
		start, end := loc[0], loc[1]
		if InString(content[:start]) {
			continue
		}
		original := content[start:end]
		claimed = append(claimed, span{start, end})

		records[lineOf(content, start)] = Record{
			Line:     lineOf(content, start),
			Content:  stripBlockMarkers(original),
			StartCol: len(linePrefix(content, start)),
			EndCol:   end,
			Original: original,
			Kind:     Multiline,
			LineSpan: strings.Count(original, "\n") + 1,
		}
	}

	// Line comments. The same line may match more than once (e.g. a //
	// inside an earlier // comment); the last valid match wins, matching
	// the per-line keying of the result map.
	lineStart := 0
	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			// Preprocessor directive.
			lineStart += len(line) + 1
			continue
		}

		for pos := strings.Index(line, "//"); pos >= 0; {
			if !inSpans(claimed, lineStart+pos) && !InString(line[:pos]) {
				text := line[pos:]
				records[lineNum] = Record{
					Line:     lineNum,
					Content:  strings.TrimSpace(text[2:]),
					StartCol: pos,
					EndCol:   len(line),
					Original: text,
					Kind:     Inline,
					HasCode:  strings.TrimSpace(line[:pos]) != "",
				}
			}
			next := strings.Index(line[pos+2:], "//")
			if next < 0 {
				break
			}
			pos += 2 + next
		}

		lineStart += len(line) + 1
	}

	return records
}

// stripBlockMarkers removes /* ... */ delimiters and line-leading * runs.
func stripBlockMarkers(comment string) string {
	s := blockHeadRe.ReplaceAllString(comment, "")
	s = blockTailRe.ReplaceAllString(s, "")
	s = blockStarRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Replace implements Extractor.
func (c CStyle) Replace(content string, translations map[int]string) string {
	lines := strings.Split(content, "\n")

	for _, ln := range descendingLines(translations) {
		// Re-extract so positions reflect edits already applied at
		// higher line numbers.
		rec, ok := c.Extract(strings.Join(lines, "\n"))[ln]
		if !ok {
			continue
		}
		translation := translations[ln]

		if rec.Kind == Inline {
			if rec.HasCode {
				code := lines[ln-1][:rec.StartCol]
				lines[ln-1] = code + "// " + strings.TrimSpace(translation)
			} else {
				lines[ln-1] = strings.Repeat(" ", rec.StartCol) + "// " + strings.TrimSpace(translation)
			}
			continue
		}

		indent := strings.Repeat(" ", rec.StartCol)
		block := []string{indent + "/*"}
		for _, tl := range strings.Split(translation, "\n") {
			block = append(block, indent+" * "+strings.TrimSpace(tl))
		}
		block = append(block, indent+" */")
		lines = splice(lines, ln-1, rec.LineSpan, block)
	}

	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Python extractor (.py)
// ---------------------------------------------------------------------------

// PythonStyle extracts # line comments and triple-quoted docstrings.
type PythonStyle struct{}

var docstringRe = regexp.MustCompile(`(?s)'''.*?'''|(?s)""".*?"""`)

// Extract implements Extractor.
func (PythonStyle) Extract(content string) map[int]Record {
	records := make(map[int]Record)

	// Triple-quoted strings, scanned with an advancing cursor so matches
	// never overlap. A match counts as a docstring only when its position
	// looks like a statement: the previous line ends with ':' or '=', it
	// is the first line of the file, or only whitespace precedes the
	// opening quotes on their own line. Anything else is an ordinary
	// string literal and is ignored entirely.
	var claimed []span
	cur := 0
	for {
		loc := docstringRe.FindStringIndex(content[cur:])
		if loc == nil {
			break
		}
		start, end := cur+loc[0], cur+loc[1]
		cur = end

		if InString(content[:start]) {
			continue
		}

		prefix := linePrefix(content, start)
		lineNum := lineOf(content, start)

		prevLine := ""
		if nl := strings.LastIndexByte(content[:start], '\n'); nl >= 0 {
			prevStart := strings.LastIndexByte(content[:nl], '\n') + 1
			prevLine = strings.TrimSpace(content[prevStart:nl])
		}

		isDocstring := lineNum == 1 ||
			strings.HasSuffix(prevLine, ":") ||
			strings.HasSuffix(prevLine, "=") ||
			strings.TrimLeft(prefix, " \t") == ""
		if !isDocstring {
			continue
		}

		original := content[start:end]
		claimed = append(claimed, span{start, end})

		records[lineNum] = Record{
			Line:     lineNum,
			Content:  strings.TrimSpace(original[3 : len(original)-3]),
			StartCol: indentWidth(prefix),
			EndCol:   end,
			Original: original,
			Kind:     Docstring,
			Quote:    original[:3],
			LineSpan: strings.Count(original, "\n") + 1,
		}
	}

	// Line comments.
	lineStart := 0
	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		pos := strings.IndexByte(line, '#')
		if pos < 0 {
			lineStart += len(line) + 1
			continue
		}

		switch {
		case inSpans(claimed, lineStart+pos):
		case InString(line[:pos]):
		case lineNum == 1 && strings.HasPrefix(strings.TrimSpace(line), "#!"):
			// Shebang.
		case lineNum <= 2 && strings.Contains(line, "coding"):
			// Encoding declaration.
		default:
			text := line[pos:]
			records[lineNum] = Record{
				Line:     lineNum,
				Content:  strings.TrimSpace(text[1:]),
				StartCol: pos,
				EndCol:   len(line),
				Original: text,
				Kind:     Inline,
				HasCode:  strings.TrimSpace(line[:pos]) != "",
			}
		}

		lineStart += len(line) + 1
	}

	return records
}

// Replace implements Extractor.
func (p PythonStyle) Replace(content string, translations map[int]string) string {
	lines := strings.Split(content, "\n")

	for _, ln := range descendingLines(translations) {
		rec, ok := p.Extract(strings.Join(lines, "\n"))[ln]
		if !ok {
			continue
		}
		translation := translations[ln]

		if rec.Kind == Inline {
			if rec.HasCode {
				code := lines[ln-1][:rec.StartCol]
				lines[ln-1] = code + "# " + strings.TrimSpace(translation)
			} else {
				lines[ln-1] = strings.Repeat(" ", rec.StartCol) + "# " + strings.TrimSpace(translation)
			}
			continue
		}

		indent := strings.Repeat(" ", rec.StartCol)
		block := []string{indent + rec.Quote}
		for _, tl := range strings.Split(translation, "\n") {
			block = append(block, indent+strings.TrimSpace(tl))
		}
		block = append(block, indent+rec.Quote)
		lines = splice(lines, ln-1, rec.LineSpan, block)
	}

	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// File-level operations
// ---------------------------------------------------------------------------

// ExtractFile reads a file and extracts its comments. Files with an
// unregistered extension yield an empty map, not an error.
func ExtractFile(path string) (map[int]Record, error) {
	ex, ok := ForFile(path)
	if !ok {
		return map[int]Record{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ex.Extract(string(data)), nil
}

// ReplaceFile rewrites a file in place, substituting translations keyed by
// starting line number. Returns false without error when the extension has
// no registered extractor or there is nothing to replace. The write is a
// full-file overwrite; it is not atomic.
func ReplaceFile(path string, translations map[int]string) (bool, error) {
	ex, ok := ForFile(path)
	if !ok || len(translations) == 0 {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	updated := ex.Replace(string(data), translations)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
