// Package i18n localizes comtrans's own user-facing strings.
//
// It wraps gotext behind T() and N(). Catalogs are embedded in the
// binary and selected at startup via Init(), which follows GNU gettext
// environment conventions when no language is forced.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
// Layout: locales/{lang}/LC_MESSAGES/comtrans.po
//
//go:embed all:locales
var locales embed.FS

const domain = "comtrans"

var po *gotext.Locale

// Init loads the catalog for lang. An empty lang auto-detects from
// LANGUAGE, LC_ALL, LC_MESSAGES and LANG, in that order. Call once at
// startup before any T or N call.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string, returning msgid unchanged when no translation
// exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates with plural forms; the target language's plural formula
// picks the form for n.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage resolves the preferred language from the environment,
// GNU gettext style: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE may hold a colon-separated preference list.
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		// "zh_CN.UTF-8" -> "zh_CN"
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
