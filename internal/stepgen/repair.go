package stepgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for generated step IDs.
const (
	StepPrefix      = "step-"
	SyntheticPrefix = "synthetic-"
)

// OptionCount is the number of options every step carries.
const OptionCount = 4

// paddingOptions fill steps that arrive with fewer than four options.
var paddingOptions = []string{
	"None of these",
	"Cannot be determined from the information given",
	"All of these",
	"It depends on the units used",
}

// Repair enforces the step invariants: duplicates are removed (first
// occurrence wins, synthetic steps are exempt), the array is padded with
// synthetic steps or truncated to clamp(marks), and steps are renumbered
// 1..n. Option shape and IDs are repaired on the way. Repair is
// idempotent and does not modify its input.
func Repair(steps []Step, marks int) []Step {
	n := ClampMarks(marks)

	out := make([]Step, 0, n)
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		s = repairShape(s)
		if !s.IsSynthetic() {
			key := dedupKey(s)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, s)
	}

	for len(out) < n {
		out = append(out, syntheticStep(len(out)+1))
	}
	out = out[:n]

	for i := range out {
		out[i].Step = i + 1
	}
	return out
}

// Check lists the problems Repair would fix. It does not modify steps.
func Check(steps []Step, marks int) []*ValidationError {
	var problems []*ValidationError
	n := ClampMarks(marks)
	if len(steps) != n {
		problems = append(problems, &ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("got %d steps, want %d", len(steps), n),
		})
	}

	seen := make(map[string]int, len(steps))
	for i, s := range steps {
		if s.Step != i+1 {
			problems = append(problems, &ValidationError{Step: i + 1, Field: "step", Message: fmt.Sprintf("numbered %d", s.Step)})
		}
		if len(s.Options) != OptionCount {
			problems = append(problems, &ValidationError{Step: i + 1, Field: "options", Message: fmt.Sprintf("has %d options", len(s.Options))})
		}
		if s.CorrectAnswerIndex < 0 || s.CorrectAnswerIndex >= OptionCount {
			problems = append(problems, &ValidationError{Step: i + 1, Field: "correctAnswerIndex", Message: fmt.Sprintf("out of range: %d", s.CorrectAnswerIndex)})
		}
		if s.ID == "" {
			problems = append(problems, &ValidationError{Step: i + 1, Field: "id", Message: "missing"})
		}
		if s.IsSynthetic() {
			continue
		}
		key := dedupKey(s)
		if first, dup := seen[key]; dup {
			problems = append(problems, &ValidationError{Step: i + 1, Field: "question", Message: fmt.Sprintf("duplicates step %d", first)})
			continue
		}
		seen[key] = i + 1
	}
	return problems
}

// dedupKey identifies a step by question, options and correct index.
// Hint and explanation are not part of the key.
func dedupKey(s Step) string {
	opts := make([]string, len(s.Options))
	for i, o := range s.Options {
		opts[i] = strings.ToLower(strings.TrimSpace(o))
	}
	return fmt.Sprintf("%s|%s|%d",
		strings.ToLower(strings.TrimSpace(s.Question)),
		strings.Join(opts, "\x1f"),
		s.CorrectAnswerIndex)
}

// repairShape returns a copy of s with exactly four options, an in-range
// correct index and an ID.
func repairShape(s Step) Step {
	opts := make([]string, 0, OptionCount)
	for _, o := range s.Options {
		opts = append(opts, strings.TrimSpace(o))
	}
	correct := s.CorrectAnswerIndex
	if correct < 0 || correct >= len(opts) {
		correct = 0
	}

	if len(opts) > OptionCount {
		if correct >= OptionCount {
			opts[OptionCount-1], opts[correct] = opts[correct], opts[OptionCount-1]
			correct = OptionCount - 1
		}
		opts = opts[:OptionCount]
	}
	for _, pad := range paddingOptions {
		if len(opts) >= OptionCount {
			break
		}
		if !containsFold(opts, pad) {
			opts = append(opts, pad)
		}
	}

	s.Options = opts
	s.CorrectAnswerIndex = correct
	if s.ID == "" {
		s.ID = StepPrefix + uuid.NewString()
	}
	if s.CalculationStep != nil {
		c := *s.CalculationStep
		s.CalculationStep = &c
	}
	return s
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// syntheticStep builds a generic but well-formed filler step.
func syntheticStep(n int) Step {
	return Step{
		ID:       SyntheticPrefix + uuid.NewString(),
		Step:     n,
		Question: "Before moving on, which check best confirms the working so far is consistent?",
		Options: []string{
			"Units on both sides of each equation agree",
			"The largest number given is used first",
			"Every value given is added together",
			"The answer is rounded to a whole number",
		},
		CorrectAnswerIndex: 0,
		Hint:               "Hint: compare the units on each side of every equation you have written so far.",
		Explanation:        "Checking that the units balance catches wrong formulas and missed conversions before they reach the final answer.",
	}
}
