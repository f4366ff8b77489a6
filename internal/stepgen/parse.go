package stepgen

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
)

// Oracle DTOs. Fields the oracle is loose about stay raw until checked.
type stepsOutput struct {
	MCQs     []stepOutput    `json:"mcqs"`
	Solution *solutionOutput `json:"solution"`
}

type stepOutput struct {
	Step               json.RawMessage   `json:"step"`
	Question           string            `json:"question"`
	Options            []json.RawMessage `json:"options"`
	CorrectAnswerIndex json.RawMessage   `json:"correctAnswerIndex"`
	Hint               string            `json:"hint"`
	Explanation        string            `json:"explanation"`
	CalculationStep    *CalculationStep  `json:"calculationStep"`
}

type solutionOutput struct {
	FinalAnswer  json.RawMessage `json:"finalAnswer"`
	Unit         string          `json:"unit"`
	WorkingSteps []string        `json:"workingSteps"`
	KeyFormulas  []string        `json:"keyFormulas"`
	KeyPoints    []string        `json:"keyPoints"`
	Pitfalls     []string        `json:"pitfalls"`
}

// parseStepsOutput decodes oracle content, salvaging fenced or wrapped
// JSON. A document without any usable step is a ParseError.
func parseStepsOutput(content []byte) (*stepsOutput, error) {
	raw, ok := llm.SalvageJSON(string(content))
	if !ok {
		return nil, &ParseError{Content: string(content), Err: errors.New("no JSON object found")}
	}

	var out stepsOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ParseError{Content: string(content), Err: err}
	}

	usable := 0
	for _, s := range out.MCQs {
		if strings.TrimSpace(s.Question) != "" {
			usable++
		}
	}
	if usable == 0 {
		return nil, &ParseError{Content: string(content), Err: errors.New("no steps with a question")}
	}
	return &out, nil
}

// steps converts the DTOs, dropping entries without a question text.
func (o *stepsOutput) steps() []Step {
	steps := make([]Step, 0, len(o.MCQs))
	for _, s := range o.MCQs {
		q := strings.TrimSpace(s.Question)
		if q == "" {
			continue
		}
		options := make([]string, 0, len(s.Options))
		for _, opt := range s.Options {
			options = append(options, flatten(opt))
		}
		steps = append(steps, Step{
			Question:           q,
			Options:            options,
			CorrectAnswerIndex: parseIndex(s.CorrectAnswerIndex, options),
			Hint:               strings.TrimSpace(s.Hint),
			Explanation:        strings.TrimSpace(s.Explanation),
			CalculationStep:    s.CalculationStep,
		})
	}
	return steps
}

// parseIndex accepts 2, "2", "C" or the text of the correct option.
// Unreadable values give 0.
func parseIndex(raw json.RawMessage, options []string) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if len(s) == 1 {
		if c := s[0] | 0x20; c >= 'a' && c <= 'd' {
			return int(c - 'a')
		}
	}
	for i, opt := range options {
		if strings.EqualFold(opt, s) {
			return i
		}
	}
	return 0
}

func (o *solutionOutput) solution() Solution {
	if o == nil {
		return normalizeSolution(Solution{})
	}
	return normalizeSolution(Solution{
		FinalAnswer:  NormalizeFinalAnswer(o.FinalAnswer),
		Unit:         strings.TrimSpace(o.Unit),
		WorkingSteps: o.WorkingSteps,
		KeyFormulas:  o.KeyFormulas,
		KeyPoints:    o.KeyPoints,
		Pitfalls:     o.Pitfalls,
	})
}

// normalizeSolution trims every list entry, drops blanks and replaces nil
// lists with empty ones.
func normalizeSolution(s Solution) Solution {
	s.FinalAnswer = strings.TrimSpace(s.FinalAnswer)
	s.Unit = strings.TrimSpace(s.Unit)
	s.WorkingSteps = cleanList(s.WorkingSteps)
	s.KeyFormulas = cleanList(s.KeyFormulas)
	s.KeyPoints = cleanList(s.KeyPoints)
	s.Pitfalls = cleanList(s.Pitfalls)
	return s
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
