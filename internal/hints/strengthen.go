package hints

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
)

// Context is the problem-level information shared by all steps.
type Context struct {
	Header       string
	OriginalText string
	Subject      string
}

// Strengthen writes a replacement for a weak hint. It tries, in order,
// the step's calculation breakdown, a template for the step's mode, cues
// from the option wording, and finally a generic hint naming the core
// concept. The computed result is never revealed.
func Strengthen(step stepgen.Step, ctx Context) string {
	if h := fromCalculation(step.CalculationStep); h != "" {
		return h
	}
	mode := Classify(step.Question, step.Options)
	concept := CoreConcept(step.Question)
	if h := fromModeTemplate(mode, concept); h != "" {
		return h
	}
	if h := fromOptions(step.Options); h != "" {
		return h
	}
	return safeGeneric(concept, ctx)
}

func fromCalculation(c *stepgen.CalculationStep) string {
	if c == nil || strings.TrimSpace(c.Formula) == "" {
		return ""
	}
	formula := strings.TrimSpace(c.Formula)
	if sub := strings.TrimSpace(c.Substitution); sub != "" {
		return fmt.Sprintf("Hint: start from %s, substitute as %s and keep the units consistent.", formula, sub)
	}
	return fmt.Sprintf("Hint: start from %s and substitute the given values with consistent units.", formula)
}

var modeTemplates = map[Mode]string{
	ModeQuantitative: "Hint: identify the relation that links the given quantities to the %s, then substitute with units.",
	ModeDefinition:   "Hint: pick the option stating the precise defining property of %s, not its everyday meaning.",
	ModeGraph:        "Hint: read what each axis shows and what the gradient or area means for %s.",
	ModeExperiment:   "Hint: separate the variable changed from the one measured and those kept fixed for %s.",
	ModeProcess:      "Hint: order the stages of %s so that each one causes the next.",
	ModeConceptual:   "Hint: link the %s to the physical principle that governs it in this situation.",
}

func fromModeTemplate(mode Mode, concept string) string {
	if concept == "" {
		return ""
	}
	tmpl, ok := modeTemplates[mode]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, concept)
}

var (
	optionNumberRe = regexp.MustCompile(`\d`)
	computeWordRe  = regexp.MustCompile(`(?i)\b(multiply|divide|add|subtract|square|root)\b`)
)

// fromOptions looks for vocabulary the options have in common.
func fromOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	var formulas, numbers, compute int
	for _, o := range options {
		if strings.Contains(o, "=") {
			formulas++
		}
		if optionNumberRe.MatchString(o) {
			numbers++
		}
		if computeWordRe.MatchString(o) {
			compute++
		}
	}
	half := (len(options) + 1) / 2
	switch {
	case formulas >= half:
		return "Hint: check which formula contains exactly the quantities the question gives you."
	case compute >= half:
		return "Hint: decide which operation combines the given quantities before doing any arithmetic."
	case numbers >= half:
		return "Hint: estimate the size and unit of the answer first, then compare the options."
	}
	if w := sharedWord(options); w != "" {
		return fmt.Sprintf("Hint: every option mentions %s, so decide what it must mean in this situation.", w)
	}
	return ""
}

// sharedWord returns the first content word present in at least half of
// the options.
func sharedWord(options []string) string {
	counts := make(map[string]int)
	var order []string
	for _, o := range options {
		seen := make(map[string]bool)
		for _, w := range contentWords(o) {
			if seen[w] {
				continue
			}
			seen[w] = true
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	need := (len(options) + 1) / 2
	if need < 2 {
		need = 2
	}
	for _, w := range order {
		if counts[w] >= need && len(w) >= 4 {
			return w
		}
	}
	return ""
}

func safeGeneric(concept string, ctx Context) string {
	if concept == "" {
		concept = strings.ToLower(strings.TrimSpace(ctx.Subject))
	}
	if concept == "" {
		return "Hint: name the physical principle this question tests before you compare the options."
	}
	return fmt.Sprintf("Hint: name the key principle behind the %s before you compare the options.", concept)
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "for": true, "to": true, "in": true,
	"on": true, "at": true, "by": true, "from": true, "with": true, "and": true, "or": true,
	"is": true, "are": true, "be": true, "was": true, "were": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "what": true, "which": true,
	"how": true, "why": true, "when": true, "where": true, "who": true, "does": true,
	"do": true, "did": true, "has": true, "have": true, "can": true, "will": true,
	"would": true, "should": true, "must": true, "calculate": true, "find": true,
	"determine": true, "state": true, "explain": true, "describe": true, "best": true,
	"describes": true, "following": true, "value": true, "correct": true, "gives": true,
	"give": true, "shows": true, "show": true, "stay": true, "stays": true, "used": true,
	"use": true, "first": true, "then": true, "next": true, "before": true, "after": true,
	"just": true, "into": true, "than": true, "as": true, "if": true, "so": true,
	"thing": true, "done": true, "need": true, "needed": true, "about": true,
	"your": true, "you": true, "we": true, "our": true, "vs": true, "versus": true,
	"unlike": true, "consider": true, "think": true, "recall": true, "maybe": true,
	"try": true, "reflect": true,
}

var wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*`)

func contentWords(s string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if !stopWords[w] && len(w) > 1 {
			out = append(out, w)
		}
	}
	return out
}

// CoreConcept extracts a short noun phrase naming what a question is
// about, e.g. "time of flight" from "What is the time of flight?".
func CoreConcept(question string) string {
	tokens := wordRe.FindAllString(strings.ToLower(question), -1)

	start := -1
	for i, t := range tokens {
		if !stopWords[t] && len(t) > 1 {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	phrase := []string{tokens[start]}
	for i := start + 1; i < len(tokens) && len(phrase) < 4; i++ {
		t := tokens[i]
		switch {
		case t == "of" && i+1 < len(tokens) && !stopWords[tokens[i+1]]:
			phrase = append(phrase, t, tokens[i+1])
			i++
		case !stopWords[t] && len(t) > 1:
			phrase = append(phrase, t)
		default:
			return strings.Join(phrase, " ")
		}
	}
	return strings.Join(phrase, " ")
}

// alternates are rephrasings used when a hint collides with one already
// given in the same step set.
var alternates = map[Mode][]string{
	ModeQuantitative: {
		"Hint: write the relation for the %s in symbols first, then substitute values with units.",
		"Hint: list which given quantities the relation for the %s needs before calculating anything.",
	},
	ModeDefinition: {
		"Hint: ask which attribute of %s stays true in the context of this question.",
		"Hint: choose the wording that would still describe %s in any textbook definition.",
	},
	ModeGraph: {
		"Hint: read the units on each axis to see what the gradient for %s represents.",
		"Hint: trace how %s changes along the horizontal axis before reading off values.",
	},
	ModeExperiment: {
		"Hint: decide which quantity for %s the experimenter changes and which one is recorded.",
		"Hint: ask what must be kept constant so that %s is a fair test.",
	},
	ModeProcess: {
		"Hint: work out which stage of %s must happen before any of the others.",
		"Hint: follow %s from its starting condition through to the final outcome.",
	},
	ModeConceptual: {
		"Hint: separate the immediate effect on the %s from what happens over a longer time.",
		"Hint: describe the %s in terms of the cause that produces it here.",
	},
}

var altPrefixes = []string{"", "For step %d, ", "In step %d, ", "At step %d, "}

// Alternate rephrases the hint for a step whose hint duplicates another.
// Successive attempts give different text.
func Alternate(mode Mode, step stepgen.Step, attempt int) string {
	variants, ok := alternates[mode]
	if !ok {
		variants = alternates[ModeConceptual]
	}
	concept := CoreConcept(step.Question)
	if concept == "" {
		concept = "idea tested"
	}
	body := stripPrefix(fmt.Sprintf(variants[attempt%len(variants)], concept))

	cycle := attempt / len(variants)
	var lead string
	switch {
	case cycle == 0:
		return Prefix + body
	case cycle < len(altPrefixes):
		lead = fmt.Sprintf(altPrefixes[cycle], step.Step)
	default:
		lead = fmt.Sprintf("Step %d, take %d: ", step.Step, cycle)
	}
	return Prefix + lead + lowerFirst(body)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
