// Package tokens provides text length measures used to estimate how long a
// learner needs just to read a prompt.
package tokens

import (
	"strings"
	"unicode/utf8"
)

// CountWords returns the number of whitespace separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountChars returns the number of characters (runes) in text.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
