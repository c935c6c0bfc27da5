package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguage(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "zh_CN.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "zh_CN" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "zh_CN")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LC_MESSAGES", "ja_JP.UTF-8")

		if got := detectLanguage(); got != "ja_JP" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ja_JP")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestTAndNFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("No comments found"); got != "No comments found" {
		t.Fatalf("T fallback = %q", got)
	}

	if got := N("%d file processed", "%d files processed", 1); got != "%d file processed" {
		t.Fatalf("N singular fallback = %q", got)
	}

	if got := N("%d file processed", "%d files processed", 2); got != "%d files processed" {
		t.Fatalf("N plural fallback = %q", got)
	}
}

func TestInitLoadsEmbeddedCatalog(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("zh")
	if got := T("No comments found"); got != "未找到注释" {
		t.Fatalf("T() with zh catalog = %q", got)
	}

	Init("ja")
	if got := T("Bye"); got != "さようなら" {
		t.Fatalf("T() with ja catalog = %q", got)
	}

	// Unknown language falls back to the msgid.
	Init("xx")
	if got := T("Bye"); got != "Bye" {
		t.Fatalf("T() with unknown catalog = %q", got)
	}
}
