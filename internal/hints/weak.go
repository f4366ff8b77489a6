package hints

import (
	"regexp"
	"strings"
)

const minHintChars = 12

var bannedRe = regexp.MustCompile(`(?i)\b(consider|think about|recall|maybe|try|reflect)\b`)

// IsWeak reports whether a hint is too short or leans on filler verbs.
// The "Hint:" prefix does not count towards the length.
func IsWeak(hint string) bool {
	body := stripPrefix(hint)
	if len([]rune(body)) < minHintChars {
		return true
	}
	return bannedRe.MatchString(body)
}

var prefixRe = regexp.MustCompile(`(?i)^\s*hint\s*[:\-–]\s*`)

// stripPrefix removes any number of leading "Hint:" labels.
func stripPrefix(hint string) string {
	s := strings.TrimSpace(hint)
	for {
		loc := prefixRe.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
}
