// Package sanitize cleans vocabulary text read from word lists and answers typed
// at the study prompt. It strips control characters and markup, collapses
// whitespace and bounds the length so that prompt text, reading-time estimates and
// answer comparison all see the same canonical form.
package sanitize

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxFactLength is the maximum allowed length, in runes, of a question or answer.
const MaxFactLength = 200

// Pre-compiled regular expressions for performance.
var (
	// reXMLTag matches XML/HTML tags including those with attributes and self-closing tags.
	// Spreadsheet exports sometimes keep <b>/<i> formatting around words.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?\s*>`)

	// reHTMLComment matches HTML comments like <!-- anything -->.
	reHTMLComment = regexp.MustCompile(`<!--[\s\S]*?-->`)

	// reWhitespace matches any run of whitespace.
	reWhitespace = regexp.MustCompile(`\s+`)
)

// FactText sanitizes a question or answer read from a word list.
//
// The pipeline runs in this order:
//  1. Strip a UTF-8 byte order mark
//  2. Replace control characters (including \n and \t) with spaces
//  3. Strip HTML comments and XML/HTML tags
//  4. Collapse whitespace runs to a single space and trim
//  5. Truncate to MaxFactLength
func FactText(input string) string {
	if input == "" {
		return ""
	}

	s := strings.TrimPrefix(input, "\uFEFF")
	s = replaceControlChars(s)
	s = reHTMLComment.ReplaceAllString(s, "")
	s = reXMLTag.ReplaceAllString(s, "")
	s = collapseWhitespace(s)

	// Rune-safe to avoid splitting multi-byte UTF-8 chars.
	if utf8.RuneCountInString(s) > MaxFactLength {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:MaxFactLength]))
	}

	return s
}

// Answer normalizes a typed answer for comparison with a fact's answer.
// Case is preserved; only control characters and whitespace are normalized.
func Answer(input string) string {
	if input == "" {
		return ""
	}
	return collapseWhitespace(replaceControlChars(input))
}

// Matches reports whether a typed answer equals the expected answer after both
// are normalized.
func Matches(typed, expected string) bool {
	return Answer(typed) == Answer(expected)
}

// FilePath sanitizes a user supplied file path by stripping control characters and
// cleaning . and .. elements and double separators.
func FilePath(input string) string {
	if input == "" {
		return ""
	}
	return filepath.Clean(replaceControlChars(input))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// replaceControlChars replaces ASCII control characters (0x00-0x1F) and DEL (0x7F)
// with a space. Null bytes are dropped entirely.
func replaceControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == 0:
			continue
		case r < 0x20 || r == 0x7F:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
