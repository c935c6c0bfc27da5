// Package langmeta provides a shared language metadata registry (English
// and native display names) used for prompt substitution and CLI output.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	// Name is the English display name, used when a target language is
	// spelled out in a translation prompt.
	Name string
	// Native is the language's own name, used in CLI output.
	Native string
}

// Registry contains canonical language metadata. Locale variants are
// resolved in Resolve() via normalization and base fallback. The "jp"
// entry mirrors the comment language detector, which reports Japanese as
// "jp" rather than ISO "ja".
var Registry = map[string]Meta{
	"ar":    {Name: "Arabic", Native: "العربية"},
	"cs":    {Name: "Czech", Native: "Čeština"},
	"de":    {Name: "German", Native: "Deutsch"},
	"en":    {Name: "English", Native: "English"},
	"es":    {Name: "Spanish", Native: "Español"},
	"fr":    {Name: "French", Native: "Français"},
	"hi":    {Name: "Hindi", Native: "हिन्दी"},
	"id":    {Name: "Indonesian", Native: "Bahasa Indonesia"},
	"it":    {Name: "Italian", Native: "Italiano"},
	"ja":    {Name: "Japanese", Native: "日本語"},
	"jp":    {Name: "Japanese", Native: "日本語"},
	"ko":    {Name: "Korean", Native: "한국어"},
	"nl":    {Name: "Dutch", Native: "Nederlands"},
	"pl":    {Name: "Polish", Native: "Polski"},
	"pt":    {Name: "Portuguese", Native: "Português"},
	"pt-BR": {Name: "Portuguese (Brazil)", Native: "Português (Brasil)"},
	"ru":    {Name: "Russian", Native: "Русский"},
	"th":    {Name: "Thai", Native: "ไทย"},
	"tr":    {Name: "Turkish", Native: "Türkçe"},
	"uk":    {Name: "Ukrainian", Native: "Українська"},
	"vi":    {Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh":    {Name: "Chinese", Native: "中文"},
	"zh-CN": {Name: "Chinese (Simplified)", Native: "简体中文"},
	"zh-TW": {Name: "Chinese (Traditional)", Native: "繁體中文"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for a code, supporting
// variants like zh_cn, zh-CN, and base-locale fallbacks. Unknown codes
// resolve to themselves so prompts still carry something meaningful.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Native: lang}
}

// PromptName returns the English display name for a language code, for
// substitution into translation prompts.
func PromptName(lang string) string {
	return Resolve(lang).Name
}
