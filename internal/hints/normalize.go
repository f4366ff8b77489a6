package hints

import (
	"strings"
)

// Word bounds for a finished hint, counting the "Hint:" token.
const (
	MinWords = 11
	MaxWords = 18
)

// Prefix starts every finished hint.
const Prefix = "Hint: "

const (
	shortFiller = "and check it against the given values."
	longFiller  = "then check each option against the information given in the question."
	emptyFiller = "Check each option against the information given in the question and its units."
)

// Normalize trims a hint to at most MaxWords words, pads it with a filler
// clause when it has fewer than MinWords, and makes sure it starts with
// "Hint: " exactly once.
func Normalize(hint string) string {
	words := strings.Fields(stripPrefix(hint))
	bodyMin, bodyMax := MinWords-1, MaxWords-1

	if len(words) < bodyMin {
		var filler string
		switch {
		case len(words) == 0:
			filler = emptyFiller
		case len(words) >= 3:
			filler = shortFiller
		default:
			filler = longFiller
		}
		if n := len(words); n > 0 {
			words[n-1] = strings.TrimRight(words[n-1], ".!?;:,") + ","
		}
		words = append(words, strings.Fields(filler)...)
	}

	if len(words) > bodyMax {
		words = words[:bodyMax]
		last := strings.TrimRight(words[bodyMax-1], ".!?;:,")
		if last == "" {
			last = "."
		}
		words[bodyMax-1] = last + "."
	}

	return Prefix + strings.Join(words, " ")
}

// WordCount counts whitespace-separated words, including the prefix.
func WordCount(hint string) int {
	return len(strings.Fields(hint))
}
