// Package scan enumerates translatable source files under a target path.
//
// Files are selected by a fixed extension allow-list and filtered through
// optional include/exclude glob patterns. Common non-source directories
// (node_modules, .git, __pycache__, etc.) are skipped during the walk.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SupportedExtensions maps file extensions to human-readable language
// names. Only files matching this table are considered for translation.
var SupportedExtensions = map[string]string{
	".py":  "Python",
	".c":   "C",
	".cpp": "C++",
	".js":  "JavaScript",
}

// skipDirs contains directory names to skip during scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".tox":         true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".eggs":        true,
}

// Filter narrows the scan result with doublestar glob patterns, matched
// against slash-separated paths relative to the scan root. An empty
// Include list admits everything; Exclude wins over Include.
type Filter struct {
	Include []string
	Exclude []string
}

// match reports whether the relative path passes the filter.
func (f Filter) match(rel string) bool {
	if f.excluded(rel) {
		return false
	}

	if len(f.Include) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range f.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// excluded reports whether the relative path hits an exclude pattern.
func (f Filter) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range f.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// Find returns all supported source files under target, which may be a
// single file or a directory. Results are absolute, deduplicated, and
// sorted.
func Find(target string, filter Filter) ([]string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", target, err)
	}

	if !info.IsDir() {
		// A file named explicitly bypasses include patterns; only
		// excludes still apply, matched against the base name.
		if !isSourceFile(abs) || filter.excluded(filepath.Base(abs)) {
			return nil, nil
		}
		return []string{abs}, nil
	}

	var files []string
	seen := make(map[string]bool)

	err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSourceFile(path) {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			rel = path
		}
		if !filter.match(rel) {
			return nil
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", target, err)
	}

	sort.Strings(files)
	return files, nil
}

func isSourceFile(path string) bool {
	_, ok := SupportedExtensions[filepath.Ext(path)]
	return ok
}

// FilesByLanguage groups source files by language name.
func FilesByLanguage(files []string) map[string][]string {
	result := make(map[string][]string)
	for _, f := range files {
		if lang, ok := SupportedExtensions[filepath.Ext(f)]; ok {
			result[lang] = append(result[lang], f)
		}
	}
	return result
}

// DescribeFiles returns a human-readable per-language summary, e.g.
// "2 C++, 5 Python".
func DescribeFiles(files []string) string {
	byLang := FilesByLanguage(files)
	var langs []string
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var parts []string
	for _, lang := range langs {
		parts = append(parts, fmt.Sprintf("%d %s", len(byLang[lang]), lang))
	}
	return strings.Join(parts, ", ")
}
