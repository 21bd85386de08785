// Package scripture pulls Bible citations out of generated replies.
package scripture

import (
	"fmt"
	"regexp"
)

// citationPattern matches "Book C:V" with an optional leading ordinal
// ("1 Corinthians 13:4") and an optional verse range, which is discarded.
var citationPattern = regexp.MustCompile(`(?:\b([1-3])\s*)?\b([A-Za-z]+)\s*(\d+):(\d+)(?:\s*-\s*\d+)?`)

// ExtractVerses returns every citation in text, left to right, formatted as
// "Book Chapter:Verse". Duplicates are kept. The result is never nil.
func ExtractVerses(text string) []string {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	verses := make([]string, 0, len(matches))
	for _, m := range matches {
		book := m[2]
		if m[1] != "" {
			book = m[1] + " " + book
		}
		verses = append(verses, fmt.Sprintf("%s %s:%s", book, m[3], m[4]))
	}
	return verses
}
