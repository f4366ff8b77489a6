package recognition

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "page codes and barcodes",
			in:   "*P72861A0224*\n1 A car accelerates uniformly.\n0625/42/M/J/23\n*0123456789*",
			want: "1 A car accelerates uniformly.",
		},
		{
			name: "margin boilerplate",
			in:   "DO NOT WRITE IN THIS MARGIN\nCalculate the speed.\nTurn over ►\n© UCLES 2023\nBLANK PAGE",
			want: "Calculate the speed.",
		},
		{
			name: "isolated figure label kept inline",
			in:   "Fig. 1.1\nFig. 1.1 shows a trolley on a ramp.",
			want: "Fig. 1.1 shows a trolley on a ramp.",
		},
		{
			name: "rules and dot leaders",
			in:   "Speed = .................... m/s\n______________\n-----",
			want: "Speed = m/s",
		},
		{
			name: "stacked fraction after operator",
			in:   "E =\n1\n2\nm v²",
			want: "E = 1/2\nm v²",
		},
		{
			name: "fraction after prose is not rejoined",
			in:   "the ratio\n3\n4",
			want: "the ratio\n3\n4",
		},
		{
			name: "fraction after opening bracket",
			in:   "v = u (\n1\n2\n)",
			want: "v = u ( 1/2\n)",
		},
		{
			name: "short lines without a lead-in stay separate",
			in:   "Answers\nA\nB",
			want: "Answers\nA\nB",
		},
		{
			name: "whitespace and blank lines collapse",
			in:   "  The   mass is\t2 kg.  \n\n\n\nFind  the weight.\n",
			want: "The mass is 2 kg.\n\nFind the weight.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "*P72861A0224*\nv =\nd\nt\n\nTurn over\nA trolley ........ moves."
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent:\n once %q\ntwice %q", once, twice)
	}
}
