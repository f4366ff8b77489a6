package hints

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		options  []string
		want     Mode
	}{
		{"Calculate the time of flight.", nil, ModeQuantitative},
		{"What is the kinetic energy of a 2 kg mass moving at 3 m/s?", nil, ModeQuantitative},
		{"Which is the resultant force?", []string{"10 N", "20 N", "30 N", "40 N"}, ModeQuantitative},
		{"Which option best describes inertia?", []string{"a", "b", "c", "d"}, ModeDefinition},
		{"What is meant by specific heat capacity?", nil, ModeDefinition},
		{"What does the gradient of the graph represent?", nil, ModeGraph},
		{"Which variable should be kept constant?", nil, ModeExperiment},
		{"Which happens first in nuclear fission?", nil, ModeProcess},
		{"Why does a satellite stay in orbit?", []string{"gravity", "thrust", "air", "magnetism"}, ModeConceptual},
	}
	for _, tt := range tests {
		if got := Classify(tt.question, tt.options); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestIsWeak(t *testing.T) {
	tests := []struct {
		hint string
		want bool
	}{
		{"", true},
		{"Hint: use F=ma", true},
		{"Hint: consider the forces acting on the block carefully", true},
		{"Hint: Try resolving the forces along the slope", true},
		{"Hint: think about energy stores before and after", true},
		{"Hint: resolve the weight into components along and perpendicular to the slope", false},
		{"Hint: the retrying loop", false},
	}
	for _, tt := range tests {
		if got := IsWeak(tt.hint); got != tt.want {
			t.Errorf("IsWeak(%q) = %v, want %v", tt.hint, got, tt.want)
		}
	}
}

func TestCoreConcept(t *testing.T) {
	tests := map[string]string{
		"What is the time of flight for a fall of 20 m?": "time of flight",
		"Calculate the resultant force on the trolley.":  "resultant force",
		"Which equation gives the final velocity?":       "equation",
		"Momentum vs kinetic energy: which is conserved?": "momentum",
		"What is it?": "",
	}
	for in, want := range tests {
		if got := CoreConcept(in); got != want {
			t.Errorf("CoreConcept(%q) = %q, want %q", in, got, want)
		}
	}
}
