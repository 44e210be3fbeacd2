package textfilter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNameLength is the longest display name accepted for a player.
const MaxNameLength = 32

// MaxTextLength caps a single chat message.
const MaxTextLength = 500

// SanitizeName trims a display name, collapses inner whitespace, drops
// control characters and truncates it to MaxNameLength runes. An
// all-lowercase name is title-cased. The result may be empty.
func SanitizeName(name string) string {
	name = strings.Join(strings.Fields(stripControl(name, false)), " ")
	name = truncate(name, MaxNameLength)
	if name != "" && strings.ToLower(name) == name {
		name = cases.Title(language.English).String(name)
	}
	return name
}

// SanitizeText trims a chat message, drops control characters other
// than newlines and truncates it to MaxTextLength runes.
func SanitizeText(text string) string {
	return truncate(strings.TrimSpace(stripControl(text, true)), MaxTextLength)
}

func stripControl(s string, keepNewlines bool) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' && keepNewlines {
			return r
		}
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
