package recognition

import (
	"regexp"
	"strings"
)

var (
	// Lines that carry no question content on a scanned exam page.
	dropLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\*?P\d{5}[A-Z]\d{4}\*?$`),
		regexp.MustCompile(`^\d{4}/\d{2}(/[A-Z]){1,2}/\d{2}$`),
		regexp.MustCompile(`^\*\d{6,}\*$`),
		regexp.MustCompile(`(?i)^\W*do not write (in|outside) (this|the) (margin|area|box)\W*$`),
		regexp.MustCompile(`(?i)^\W*turn over\W*$`),
		regexp.MustCompile(`(?i)^©\s*(ucles|pearson|aqa|ocr)\b.*$`),
		regexp.MustCompile(`(?i)^\W*blank page\W*$`),
		regexp.MustCompile(`(?i)^fig(ure)?\.?\s*\d+(\.\d+)?[a-z]?$`),
		regexp.MustCompile(`^[_\-–—.·…\s]+$`),
	}

	leaderRe     = regexp.MustCompile(`\.{4,}|…{2,}|_{3,}`)
	fracTokenRe  = regexp.MustCompile(`^[A-Za-z0-9.]{1,6}$`)
	fracLeadInRe = regexp.MustCompile(`[=+\-×*÷(]$`)
)

// Normalize strips scanning artifacts from recognized text and rejoins
// stacked fractions split over two lines into a/b. A fraction is only
// rejoined when the line before it ends in an operator or an opening
// bracket; after prose, two short lines are more often list items or
// part numbers than a numerator and denominator, so they stay split.
// Blank lines are kept as single paragraph breaks.
func Normalize(text string) string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = leaderRe.ReplaceAllString(l, " ")
		l = strings.Join(strings.Fields(strings.ReplaceAll(l, "\u00a0", " ")), " ")
		if l != "" && dropLine(l) {
			continue
		}
		lines = append(lines, l)
	}

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		if n := len(out); n > 0 && out[n-1] != "" && i+1 < len(lines) &&
			fracLeadInRe.MatchString(out[n-1]) &&
			fracTokenRe.MatchString(l) && fracTokenRe.MatchString(lines[i+1]) {
			out[n-1] += " " + l + "/" + lines[i+1]
			i++
			continue
		}
		out = append(out, l)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func dropLine(l string) bool {
	for _, re := range dropLinePatterns {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}
