package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	short := "hello"
	if got := tp.TruncateText(short, 100); got != short {
		t.Errorf("short text changed: %q", got)
	}
	if got := tp.TruncateText(short, 0); got != short {
		t.Errorf("zero maxSize should disable truncation: %q", got)
	}

	long := strings.Repeat("a", 200)
	got := tp.TruncateText(long, 50)
	if !strings.HasPrefix(got, strings.Repeat("a", 50)) {
		t.Errorf("truncated prefix wrong: %q", got[:60])
	}
	if !strings.Contains(got, "Content truncated") {
		t.Error("truncation marker missing")
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// 4-byte runes; a 10-byte cut would split the third rune.
	text := strings.Repeat("\U0001F600", 5)
	got := tp.TruncateText(text, 10)
	if !utf8.ValidString(got) {
		t.Errorf("truncated text is not valid UTF-8: %q", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	valid := "plain ascii and ünïcode"
	if got := tp.SanitizeUTF8(valid); got != valid {
		t.Errorf("valid text changed: %q", got)
	}

	invalid := "abc\xff\xfedef"
	got := tp.SanitizeUTF8(invalid)
	if !utf8.ValidString(got) {
		t.Errorf("sanitized text still invalid: %q", got)
	}
	if !strings.Contains(got, "abc") || !strings.Contains(got, "def") {
		t.Errorf("valid content dropped: %q", got)
	}
}
