package hints

import (
	"regexp"
	"strings"
)

var (
	contrastRe     = regexp.MustCompile(`(?i)\b(unlike|vs|versus)\b`)
	unlikeClauseRe = regexp.MustCompile(`(?i),?\s*\bunlike\b[^,.;]*[,;]?`)
	versusClauseRe = regexp.MustCompile(`(?i)\s*\b(vs|versus)\b\.?[^,.;]*`)
)

// HasContrast reports whether a hint compares against something else.
func HasContrast(hint string) bool {
	return contrastRe.MatchString(hint)
}

// ContrastBudget is the number of contrast hints allowed in a set of n.
func ContrastBudget(n int) int {
	return n / 3
}

// modeCues replace a stripped comparison with an attribute or mechanism
// cue.
var modeCues = map[Mode]string{
	ModeQuantitative: "focus on the relation that governs this quantity",
	ModeDefinition:   "focus on the defining attribute itself",
	ModeGraph:        "focus on what the gradient or area represents",
	ModeExperiment:   "focus on what is changed, measured and kept fixed",
	ModeProcess:      "focus on the mechanism that drives each stage",
	ModeConceptual:   "focus on the mechanism behind the effect",
}

// stripContrast removes comparison clauses and appends the mode's cue.
func stripContrast(hint string, mode Mode) string {
	body := stripPrefix(hint)
	for i := 0; i < 4 && HasContrast(body); i++ {
		body = unlikeClauseRe.ReplaceAllString(body, "")
		body = versusClauseRe.ReplaceAllString(body, "")
	}
	body = strings.Trim(strings.TrimSpace(body), ",;: ")
	// Anything the clause patterns missed is dropped word by word.
	if HasContrast(body) {
		kept := make([]string, 0)
		for _, w := range strings.Fields(body) {
			if !HasContrast(w) {
				kept = append(kept, w)
			}
		}
		body = strings.Join(kept, " ")
	}
	body = strings.TrimRight(body, ".!?;:, ")

	cue := modeCues[mode]
	if cue == "" {
		cue = modeCues[ModeConceptual]
	}
	if body == "" {
		return upperFirst(cue) + "."
	}
	return body + "; " + cue + "."
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
