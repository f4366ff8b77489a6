// Package stepgen turns an exam problem into an exact number of
// multiple-choice steps plus a solution summary.
package stepgen

import (
	"strings"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
)

// Marks bounds. The requested mark count is also the step count.
const (
	MinMarks = 1
	MaxMarks = 8
)

// SourceType records how a question was submitted.
type SourceType string

const (
	SourceText  SourceType = "text"
	SourcePhoto SourceType = "photo"
	SourceFile  SourceType = "file"
)

// Question is one problem submitted for decoding.
type Question struct {
	// RawContent is what the user typed, or a label for an upload.
	RawContent string

	// ExtractedText is the recognized text of an upload. For typed
	// questions it echoes RawContent.
	ExtractedText string

	// Marks is the requested step count, clamped to [MinMarks, MaxMarks].
	Marks int

	SourceType SourceType
	Subject    string
	Syllabus   string
	Level      string

	FileBytes []byte
	MimeType  string
}

// Text returns the best available problem text.
func (q Question) Text() string {
	if t := strings.TrimSpace(q.ExtractedText); t != "" {
		return t
	}
	return strings.TrimSpace(q.RawContent)
}

// ClampMarks forces a mark count into [MinMarks, MaxMarks].
func ClampMarks(marks int) int {
	if marks < MinMarks {
		return MinMarks
	}
	if marks > MaxMarks {
		return MaxMarks
	}
	return marks
}

// CalculationStep is the optional worked calculation behind a step.
type CalculationStep struct {
	Formula      string `json:"formula,omitempty"`
	Substitution string `json:"substitution,omitempty"`
	Result       string `json:"result,omitempty"`
}

// Step is one multiple-choice question in the guided sequence.
type Step struct {
	ID                 string           `json:"id"`
	Step               int              `json:"step"`
	Question           string           `json:"question"`
	Options            []string         `json:"options"`
	CorrectAnswerIndex int              `json:"correctAnswerIndex"`
	Hint               string           `json:"hint"`
	Explanation        string           `json:"explanation"`
	CalculationStep    *CalculationStep `json:"calculationStep,omitempty"`
}

// IsSynthetic reports whether the step was fabricated to meet the count.
func (s Step) IsSynthetic() bool {
	return strings.HasPrefix(s.ID, SyntheticPrefix)
}

// Solution summarizes the full answer.
type Solution struct {
	FinalAnswer  string   `json:"finalAnswer"`
	Unit         string   `json:"unit"`
	WorkingSteps []string `json:"workingSteps"`
	KeyFormulas  []string `json:"keyFormulas"`
	KeyPoints    []string `json:"keyPoints"`
	Pitfalls     []string `json:"pitfalls"`
}

// Source records which generator produced a result.
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

// Result is a validated step sequence with its solution.
type Result struct {
	Steps    []Step
	Solution Solution
	Source   Source
	Usage    llm.Usage
}
