package analysis

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageLabel turns a backend language code ("zh-TW", "en", ...) into a
// human-readable name for the title metadata line. Unparseable codes come
// back unchanged rather than erroring; the metadata line is cosmetic.
func LanguageLabel(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
