package langdetect

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Language
	}{
		{name: "pure english", text: "initialize the counter", want: English},
		{name: "english with digits and punctuation", text: "retry 3 times, then fail!", want: English},
		{name: "chinese", text: "初始化计数器", want: Chinese},
		{name: "one drop of chinese beats latin", text: "init 计 counter", want: Chinese},
		{name: "kana with ideographs is chinese", text: "かうんたを初期化する", want: Chinese}, // 初期化 are ideographs
		{name: "pure kana is japanese", text: "カウンタをリセット", want: Japanese},
		{name: "hiragana only", text: "これはてすとです", want: Japanese},
		{name: "cyrillic is unknown", text: "счётчик", want: Unknown},
		{name: "empty after marker strip", text: "// ", want: Unknown},
		{name: "markers stripped before check", text: "/* reset the counter */", want: English},
		{name: "hash markers stripped", text: "## 重置", want: Chinese},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestDetect_OneDropPriority(t *testing.T) {
	t.Parallel()

	// Ideographs outrank kana even when kana dominates.
	if got := Detect("とてもながいかなのぶんしょう 漢"); got != Chinese {
		t.Fatalf("got %q, want Chinese", got)
	}
}

func TestShouldTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		source string
		want   bool
	}{
		{name: "empty source matches everything", text: "whatever", source: "", want: true},
		{name: "any wildcard", text: "whatever", source: "any", want: true},
		{name: "wildcard is case-insensitive", text: "whatever", source: "ANY", want: true},
		{name: "matching chinese", text: "你好", source: "zh", want: true},
		{name: "source case-insensitive", text: "你好", source: "ZH", want: true},
		{name: "non-matching language", text: "plain english", source: "zh", want: false},
		{name: "matching english", text: "plain english", source: "en", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldTranslate(tc.text, tc.source); got != tc.want {
				t.Fatalf("ShouldTranslate(%q, %q) = %v, want %v", tc.text, tc.source, got, tc.want)
			}
		})
	}
}

func TestDetectStatistical_FallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	// Single ideograph: too short for a confident statistical call, the
	// heuristic must still classify it.
	if got := DetectStatistical("计"); got != Chinese {
		t.Fatalf("got %q, want Chinese", got)
	}

	if got := DetectStatistical("// "); got != Unknown {
		t.Fatalf("got %q, want Unknown", got)
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"zh", "jp", "en", "any", "ZH", " en "} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"fr", "de", "xx"} {
		if Supported(code) {
			t.Errorf("Supported(%q) = true, want false", code)
		}
	}
}
