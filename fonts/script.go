package fonts

import (
	"unicode"

	"github.com/go-text/typesetting/language"
)

// DominantScript reports the script most of the text is written in. Used to
// warn when a CJK payload is about to render with the bundled Latin faces.
func DominantScript(text string) language.Script {
	counts := make(map[language.Script]int)
	best := language.Latin
	max := 0
	for _, r := range text {
		s := scriptFromRune(r)
		if s == language.Unknown {
			continue
		}
		counts[s]++
		if counts[s] > max {
			max = counts[s]
			best = s
		}
	}
	return best
}

// IsCJK reports whether the script needs a CJK-capable font.
func IsCJK(s language.Script) bool {
	switch s {
	case language.Han, language.Hiragana, language.Katakana, language.Hangul:
		return true
	}
	return false
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	}
	return language.Unknown
}
