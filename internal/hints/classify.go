// Package hints keeps step hints specific, distinct and within length,
// and limits comparison phrasing across a step set.
package hints

import (
	"regexp"
	"strings"
)

// Mode is the cognitive demand of a step.
type Mode string

const (
	ModeQuantitative Mode = "quantitative"
	ModeDefinition   Mode = "definition"
	ModeGraph        Mode = "graph"
	ModeExperiment   Mode = "experiment"
	ModeProcess      Mode = "process"
	ModeConceptual   Mode = "conceptual"
)

var (
	numberRe   = regexp.MustCompile(`\d`)
	operatorRe = regexp.MustCompile(`[=+×÷*^/]|\d\s*-\s*\d`)
	unitRe     = regexp.MustCompile(`\d\s*(m|s|kg|g|N|J|W|V|A|Pa|Hz|Ω|K|mol|m/s|m/s²|m s-1|ms-1|N/kg|°C|%)(\b|$|\s)`)
	calcWordRe = regexp.MustCompile(`(?i)\b(calculate|compute|how (much|many|far|long|fast)|find the value|what is the value|magnitude of)\b`)

	definitionRe = regexp.MustCompile(`(?i)\b(define|definition|what is meant by|best describes|is defined as|which term|what is (a|an)\b|what is)\b`)
	graphRe      = regexp.MustCompile(`(?i)\b(graph|gradient|axis|axes|plot|plotted|table|chart|slope|intercept|curve)\b`)
	experimentRe = regexp.MustCompile(`(?i)\b(variable|control(led)?|apparatus|independent|dependent|measured?|experiment|investigation|uncertainty|precision|accuracy|repeat(ed)?|reading)s?\b`)
	processRe    = regexp.MustCompile(`(?i)\b(sequence|steps?|order|stages?|first|next|process|procedure|then|after)\b`)
)

// modeRules are tried in order; the first match wins.
var modeRules = []struct {
	mode  Mode
	match func(question, options string) bool
}{
	{ModeQuantitative, func(q, o string) bool {
		if calcWordRe.MatchString(q) {
			return true
		}
		both := q + "\n" + o
		return numberRe.MatchString(both) && (unitRe.MatchString(both) || operatorRe.MatchString(both))
	}},
	{ModeDefinition, func(q, _ string) bool { return definitionRe.MatchString(q) }},
	{ModeGraph, func(q, _ string) bool { return graphRe.MatchString(q) }},
	{ModeExperiment, func(q, _ string) bool { return experimentRe.MatchString(q) }},
	{ModeProcess, func(q, _ string) bool { return processRe.MatchString(q) }},
}

// Classify returns the mode of a step from its question and options.
func Classify(question string, options []string) Mode {
	opts := strings.Join(options, "\n")
	for _, r := range modeRules {
		if r.match(question, opts) {
			return r.mode
		}
	}
	return ModeConceptual
}
