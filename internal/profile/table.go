package profile

type entry struct {
	aliases []string
	level   string
	profile Profile
}

var (
	gcseWords = CommandWords{
		AO1: []string{"state", "name", "define", "write down"},
		AO2: []string{"calculate", "determine", "show that", "explain"},
		AO3: []string{"evaluate", "compare", "justify", "suggest"},
	}
	aLevelWords = CommandWords{
		AO1: []string{"state", "define", "describe"},
		AO2: []string{"calculate", "determine", "show that", "deduce"},
		AO3: []string{"evaluate", "discuss", "justify", "assess"},
	}
	cieWords = CommandWords{
		AO1: []string{"state", "define", "describe"},
		AO2: []string{"calculate", "determine", "explain", "show"},
		AO3: []string{"suggest", "predict", "deduce", "evaluate"},
	}

	siUnits = "SI units throughout; convert prefixes before substituting"
)

// Generic is returned when nothing else matches.
var Generic = Profile{
	Key:          "generic",
	Board:        "GENERIC",
	Level:        "any",
	AOMapping:    AOMapping{AO1: 30, AO2: 45, AO3: 25},
	CommandWords: gcseWords,
	Conventions: Conventions{
		SigFigs:         3,
		GValue:          "9.81 m/s²",
		Units:           siUnits,
		DistractorStyle: "plausible slips: wrong formula, sign error, unit mix-up",
	},
}

var ibDP = Profile{
	Key:       "ib-dp",
	Board:     "IB",
	Level:     "DP (SL/HL)",
	AOMapping: AOMapping{AO1: 30, AO2: 40, AO3: 30},
	CommandWords: CommandWords{
		AO1: []string{"state", "define", "outline", "identify"},
		AO2: []string{"calculate", "determine", "estimate", "apply"},
		AO3: []string{"explain", "discuss", "evaluate", "deduce"},
	},
	Conventions: Conventions{
		SigFigs:         3,
		GValue:          "9.8 m/s²",
		Units:           siUnits + "; use the data booklet symbols",
		DistractorStyle: "misapplied data-booklet equations and uncertainty slips",
	},
}

var table = []entry{
	{
		aliases: []string{"aqa"},
		level:   "gcse",
		profile: Profile{
			Key: "aqa-gcse", Board: "AQA", Level: "GCSE",
			AOMapping:    AOMapping{AO1: 40, AO2: 40, AO3: 20},
			CommandWords: gcseWords,
			Conventions: Conventions{
				SigFigs: 2, GValue: "9.8 N/kg", Units: siUnits,
				DistractorStyle: "equation-sheet misuse and unit conversion errors",
			},
		},
	},
	{
		aliases: []string{"ocr"},
		level:   "gcse",
		profile: Profile{
			Key: "ocr-gcse", Board: "OCR", Level: "GCSE",
			AOMapping:    AOMapping{AO1: 40, AO2: 40, AO3: 20},
			CommandWords: gcseWords,
			Conventions: Conventions{
				SigFigs: 2, GValue: "10 N/kg", Units: siUnits,
				DistractorStyle: "rearrangement errors and missed prefixes",
			},
		},
	},
	{
		aliases: []string{"edexcel", "pearson"},
		level:   "gcse",
		profile: Profile{
			Key: "edexcel-gcse", Board: "Edexcel", Level: "GCSE",
			AOMapping:    AOMapping{AO1: 40, AO2: 40, AO3: 20},
			CommandWords: gcseWords,
			Conventions: Conventions{
				SigFigs: 2, GValue: "10 N/kg", Units: siUnits,
				DistractorStyle: "wrong equation choice and unit mix-ups",
			},
		},
	},
	{
		aliases: []string{"aqa"},
		level:   "alevel",
		profile: Profile{
			Key: "aqa-alevel", Board: "AQA", Level: "A-Level",
			AOMapping:    AOMapping{AO1: 30, AO2: 45, AO3: 25},
			CommandWords: aLevelWords,
			Conventions: Conventions{
				SigFigs: 3, GValue: "9.81 m/s²", Units: siUnits,
				DistractorStyle: "component and sign errors, misread graphs",
			},
		},
	},
	{
		aliases: []string{"ocr"},
		level:   "alevel",
		profile: Profile{
			Key: "ocr-alevel", Board: "OCR", Level: "A-Level",
			AOMapping:    AOMapping{AO1: 30, AO2: 45, AO3: 25},
			CommandWords: aLevelWords,
			Conventions: Conventions{
				SigFigs: 3, GValue: "9.81 m/s²", Units: siUnits,
				DistractorStyle: "component and sign errors, misread graphs",
			},
		},
	},
	{
		aliases: []string{"edexcel", "pearson"},
		level:   "alevel",
		profile: Profile{
			Key: "edexcel-alevel", Board: "Edexcel", Level: "A-Level",
			AOMapping:    AOMapping{AO1: 30, AO2: 45, AO3: 25},
			CommandWords: aLevelWords,
			Conventions: Conventions{
				SigFigs: 3, GValue: "9.81 m/s²", Units: siUnits,
				DistractorStyle: "component and sign errors, misread graphs",
			},
		},
	},
	{
		aliases: []string{"cie", "cambridge", "caie"},
		level:   "igcse",
		profile: Profile{
			Key: "cie-igcse", Board: "CIE", Level: "IGCSE",
			AOMapping:    AOMapping{AO1: 50, AO2: 30, AO3: 20},
			CommandWords: cieWords,
			Conventions: Conventions{
				SigFigs: 2, GValue: "9.8 m/s²", Units: siUnits,
				DistractorStyle: "formula recall slips and unit errors",
			},
		},
	},
	{
		aliases: []string{"cie", "cambridge", "caie"},
		level:   "alevel",
		profile: Profile{
			Key: "cie-alevel", Board: "CIE", Level: "A-Level",
			AOMapping:    AOMapping{AO1: 30, AO2: 45, AO3: 25},
			CommandWords: cieWords,
			Conventions: Conventions{
				SigFigs: 3, GValue: "9.81 m/s²", Units: siUnits,
				DistractorStyle: "component and sign errors, misread graphs",
			},
		},
	},
	{
		aliases: []string{"ib", "international baccalaureate"},
		level:   "dp",
		profile: ibDP,
	},
	{
		aliases: []string{"ap", "college board"},
		level:   "ap1",
		profile: Profile{
			Key: "ap-physics-1", Board: "AP", Level: "Physics 1",
			AOMapping: AOMapping{AO1: 20, AO2: 50, AO3: 30},
			CommandWords: CommandWords{
				AO1: []string{"identify", "state"},
				AO2: []string{"calculate", "derive", "determine"},
				AO3: []string{"justify", "explain", "compare"},
			},
			Conventions: Conventions{
				SigFigs: 3, GValue: "10 m/s²", Units: siUnits,
				DistractorStyle: "conceptual misconceptions over arithmetic slips",
			},
		},
	},
}
