package stepgen

import (
	"strings"
	"testing"
)

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		text string
		want Topic
	}{
		{"A ball is thrown horizontally from a 20m cliff at 15 m/s", TopicProjectile},
		{"Two trolleys collide and stick together", TopicMomentum},
		{"Calculate the impulse on the ball", TopicMomentum},
		{"A 5 kg box is pulled with a force of 20 N against friction", TopicForces},
		{"A car accelerates from rest to 20 m/s in 5 s", TopicKinematics},
		{"", TopicKinematics},
	}
	for _, tt := range tests {
		if got := ClassifyTopic(tt.text); got != tt.want {
			t.Errorf("ClassifyTopic(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFallback_ProjectileWithNumbers(t *testing.T) {
	res := Fallback(Question{RawContent: "A ball is thrown horizontally from a 20m cliff at 15 m/s", Marks: 3})

	if res.Source != SourceFallback {
		t.Errorf("Source = %q", res.Source)
	}
	if len(res.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(res.Steps))
	}
	if !strings.Contains(res.Solution.FinalAnswer, "2.02 s") || !strings.Contains(res.Solution.FinalAnswer, "30.3 m") {
		t.Errorf("FinalAnswer = %q", res.Solution.FinalAnswer)
	}
	if len(res.Solution.WorkingSteps) == 0 {
		t.Error("expected working steps")
	}
	third := res.Steps[2]
	if got := third.Options[third.CorrectAnswerIndex]; got != "2.02 s" {
		t.Errorf("time step correct option = %q, want 2.02 s", got)
	}
}

func TestFallback_EveryTopicMeetsTheCount(t *testing.T) {
	texts := []string{
		"A projectile is launched",
		"Momentum before the collision",
		"Find the resultant force",
		"A cyclist travels 100 m",
	}
	for _, text := range texts {
		for marks := 1; marks <= MaxMarks; marks++ {
			res := Fallback(Question{RawContent: text, Marks: marks})
			if len(res.Steps) != marks {
				t.Errorf("%q marks=%d: got %d steps", text, marks, len(res.Steps))
			}
			if res.Solution.FinalAnswer == "" {
				t.Errorf("%q: empty final answer", text)
			}
			if problems := Check(res.Steps, marks); len(problems) != 0 {
				t.Errorf("%q marks=%d: %v", text, marks, problems)
			}
		}
	}
}

func TestFallback_SpreadsCorrectAnswers(t *testing.T) {
	res := Fallback(Question{RawContent: "Find the resultant force", Marks: 4})
	for i, s := range res.Steps {
		if s.CorrectAnswerIndex != i%OptionCount {
			t.Errorf("step %d correct index = %d, want %d", i+1, s.CorrectAnswerIndex, i%OptionCount)
		}
	}
}

func TestSig3(t *testing.T) {
	tests := map[float64]string{
		2.0193: "2.02",
		30.289: "30.3",
		19.81:  "19.8",
		0.04077: "0.0408",
		12345:  "12300",
		0:      "0",
	}
	for in, want := range tests {
		if got := sig3(in); got != want {
			t.Errorf("sig3(%v) = %q, want %q", in, got, want)
		}
	}
}
