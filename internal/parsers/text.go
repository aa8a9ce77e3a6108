package parsers

import "strings"

// CleanText normalises extracted text: null bytes are dropped, form
// feeds become newlines, and whitespace runs collapse to single spaces.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\f", "\n")
	return strings.Join(strings.Fields(text), " ")
}
