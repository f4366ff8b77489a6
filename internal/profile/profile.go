// Package profile maps a syllabus and level onto the assessment
// conventions used to calibrate generated steps.
package profile

import (
	"fmt"
	"slices"
	"strings"
)

// AOMapping gives the approximate share of marks per assessment objective.
type AOMapping struct {
	AO1 int `json:"ao1"` // knowledge and recall
	AO2 int `json:"ao2"` // application
	AO3 int `json:"ao3"` // analysis and evaluation
}

// CommandWords lists typical command words per assessment objective.
type CommandWords struct {
	AO1 []string `json:"ao1"`
	AO2 []string `json:"ao2"`
	AO3 []string `json:"ao3"`
}

// Conventions are the board's presentation rules for answers.
type Conventions struct {
	SigFigs         int    `json:"sigFigs"`
	GValue          string `json:"gValue"`
	Units           string `json:"units"`
	DistractorStyle string `json:"distractorStyle"`
}

// Profile describes one exam board at one level.
type Profile struct {
	Key          string       `json:"key"`
	Board        string       `json:"board"`
	Level        string       `json:"level"`
	AOMapping    AOMapping    `json:"aoMapping"`
	CommandWords CommandWords `json:"commandWords"`
	Conventions  Conventions  `json:"conventions"`
}

// PromptBlock renders the profile as plain text for a generation prompt.
func (p Profile) PromptBlock() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessment profile: %s %s\n", p.Board, p.Level)
	fmt.Fprintf(&b, "- Mark split: AO1 %d%%, AO2 %d%%, AO3 %d%%\n", p.AOMapping.AO1, p.AOMapping.AO2, p.AOMapping.AO3)
	fmt.Fprintf(&b, "- Command words: AO1 %s; AO2 %s; AO3 %s\n",
		strings.Join(p.CommandWords.AO1, ", "),
		strings.Join(p.CommandWords.AO2, ", "),
		strings.Join(p.CommandWords.AO3, ", "))
	fmt.Fprintf(&b, "- Give numerical answers to %d significant figures; use g = %s\n", p.Conventions.SigFigs, p.Conventions.GValue)
	fmt.Fprintf(&b, "- Units: %s\n", p.Conventions.Units)
	fmt.Fprintf(&b, "- Distractors: %s\n", p.Conventions.DistractorStyle)
	return b.String()
}

// Resolve returns the profile for a syllabus and level. It never fails:
// unknown inputs get the GENERIC profile.
//
// Matching order: exact (board, level) key, then a board-only match on
// the syllabus, then an "ib" token in either field, then GENERIC. The
// result owns its command word lists.
func Resolve(syllabus, level string) Profile {
	p := resolve(syllabus, level)
	p.CommandWords = CommandWords{
		AO1: slices.Clone(p.CommandWords.AO1),
		AO2: slices.Clone(p.CommandWords.AO2),
		AO3: slices.Clone(p.CommandWords.AO3),
	}
	return p
}

func resolve(syllabus, level string) Profile {
	s := strings.ToLower(strings.TrimSpace(syllabus))
	l := normalizeLevel(level)

	if s != "" && l != "" {
		for _, p := range table {
			if matchesBoard(p, s) && p.level == l {
				return p.profile
			}
		}
	}

	if s != "" {
		for _, p := range table {
			if matchesBoard(p, s) {
				return p.profile
			}
		}
	}

	if hasToken(s, "ib") || hasToken(strings.ToLower(level), "ib") {
		return ibDP
	}

	return Generic
}

func matchesBoard(e entry, syllabus string) bool {
	for _, alias := range e.aliases {
		if syllabus == alias {
			return true
		}
		if strings.Contains(alias, " ") {
			if strings.Contains(syllabus, alias) {
				return true
			}
		} else if hasToken(syllabus, alias) {
			return true
		}
	}
	return false
}

// normalizeLevel folds the common spellings of a level onto table keys.
func normalizeLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	l = strings.NewReplacer("-", "", " ", "", "_", "").Replace(l)
	switch l {
	case "":
		return ""
	case "gcse", "91":
		return "gcse"
	case "alevel", "as", "a2", "aslevel":
		return "alevel"
	case "igcse":
		return "igcse"
	case "sl", "hl", "dp", "ibdp", "ibsl", "ibhl":
		return "dp"
	case "ap", "ap1", "apphysics1", "physics1":
		return "ap1"
	}
	return l
}

func hasToken(s, token string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == ','
	}) {
		if f == token {
			return true
		}
	}
	return false
}

// MarkGuidance describes how a question worth marks splits between
// recall, application and evaluation. It only calibrates prompts.
func MarkGuidance(marks int) string {
	switch {
	case marks <= 2:
		return "1-2 marks: mostly recall (AO1). One fact or one direct substitution; no multi-stage reasoning."
	case marks <= 4:
		return "3-4 marks: recall then application (AO1/AO2). Select the relation, substitute with units, state the result."
	case marks <= 6:
		return "5-6 marks: mainly application (AO2) with some analysis. Chain two relations and carry intermediate values."
	default:
		return "7-8 marks: application with analysis and evaluation (AO2/AO3). Multi-stage working, justify assumptions, comment on the answer."
	}
}
