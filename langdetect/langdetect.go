// Package langdetect classifies comment text as Chinese, Japanese, or
// English using a strict one-drop rule over Unicode script ranges.
//
// The heuristic is the baseline contract: a single CJK ideograph makes the
// text Chinese regardless of any surrounding Latin text, kana makes it
// Japanese, and pure-ASCII text is English. A statistical mode backed by
// the whatlanggo library is available as an optional refinement; it falls
// back to the heuristic whenever its confidence is low or it reports a
// language outside the supported set.
package langdetect

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Language is a detected comment language code.
type Language string

const (
	Chinese  Language = "zh"
	Japanese Language = "jp"
	English  Language = "en"
	Unknown  Language = ""
)

// Any is the wildcard source-language setting: translate everything.
const Any = "any"

// markerRe strips leading/trailing comment marker characters and
// whitespace before classification.
var markerRe = regexp.MustCompile(`^[/*\s#]+|[*/\s]+$`)

// minConfidence is the whatlanggo confidence below which the statistical
// detector defers to the heuristic.
const minConfidence = 0.8

// Detect classifies text by the one-drop rule: any CJK Unified Ideograph
// wins as Chinese; otherwise any Hiragana or Katakana wins as Japanese;
// otherwise text made up entirely of ASCII letters, digits, punctuation,
// and whitespace is English. Anything else is Unknown.
func Detect(text string) Language {
	text = strings.TrimSpace(markerRe.ReplaceAllString(text, ""))
	if text == "" {
		return Unknown
	}

	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return Chinese
		}
	}

	for _, r := range text {
		if (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF) {
			return Japanese
		}
	}

	if isASCIIText(text) {
		return English
	}

	return Unknown
}

// isASCIIText reports whether every character is an ASCII letter, digit,
// punctuation mark, or common whitespace.
func isASCIIText(text string) bool {
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r >= '!' && r <= '/', r >= ':' && r <= '@', r >= '[' && r <= '`', r >= '{' && r <= '~':
		case r == ' ', r == '\n', r == '\t', r == '\r':
		default:
			return false
		}
	}
	return true
}

// DetectStatistical classifies text with whatlanggo and falls back to the
// heuristic when the library is unsure or reports an unsupported language.
func DetectStatistical(text string) Language {
	stripped := strings.TrimSpace(markerRe.ReplaceAllString(text, ""))
	if stripped == "" {
		return Unknown
	}

	info := whatlanggo.Detect(stripped)
	if info.Confidence >= minConfidence {
		switch info.Lang {
		case whatlanggo.Cmn:
			return Chinese
		case whatlanggo.Jpn:
			return Japanese
		case whatlanggo.Eng:
			return English
		}
	}

	return Detect(text)
}

// ShouldTranslate reports whether text matches the configured source
// language. An empty or wildcard source matches everything; otherwise the
// detected language must equal the source (case-insensitive).
func ShouldTranslate(text, source string) bool {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" || source == Any {
		return true
	}
	return Detect(text) == Language(source)
}

// Supported reports whether code names a language the detector understands
// (including the wildcard).
func Supported(code string) bool {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case Chinese, Japanese, English, Language(Any):
		return true
	}
	return false
}
