package synthesis

import (
	"regexp"
	"strings"
)

// genericRe matches study-skills boilerplate that says nothing about the
// problem itself.
var genericRe = regexp.MustCompile(`(?i)\b(read the question (carefully|again)|check your (answer|units|working|work)|show (all )?(of )?your working|double[- ]check|make sure you|be careful|practi[cs]e (more|regularly)|revise (the|this|your)|understand the (question|concept|topic)|remember to|take your time|learn the formula|underline the key)\b`)

// verbs that open a procedural step rather than naming a mistake.
var procedureVerbs = map[string]bool{
	"add": true, "apply": true, "calculate": true, "check": true, "compare": true,
	"compute": true, "convert": true, "determine": true, "divide": true, "draw": true,
	"ensure": true, "find": true, "identify": true, "label": true, "list": true,
	"make": true, "measure": true, "multiply": true, "note": true, "plot": true,
	"read": true, "rearrange": true, "record": true, "remember": true, "resolve": true,
	"round": true, "set": true, "show": true, "solve": true, "start": true,
	"state": true, "substitute": true, "subtract": true, "take": true, "use": true,
	"work": true, "write": true,
}

var leadNumberRe = regexp.MustCompile(`^\s*(\d+[.)]|[-*•])\s+`)

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(leadNumberRe.ReplaceAllString(s, "")), " ")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isGeneric(s string) bool {
	return genericRe.MatchString(s)
}

func dropGeneric(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if !isGeneric(s) {
			out = append(out, s)
		}
	}
	return out
}

func key(s string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(s), ".;:"))
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		k := key(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func capList(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func filterWorkingSteps(in []string) []string {
	return capList(dedupe(dropGeneric(clean(in))), MaxWorkingSteps)
}

// filterKeyPoints drops generic points and points that repeat a working
// step.
func filterKeyPoints(in, working []string) []string {
	steps := make(map[string]bool, len(working))
	for _, w := range working {
		steps[key(w)] = true
	}
	out := make([]string, 0, len(in))
	for _, p := range dedupe(dropGeneric(clean(in))) {
		if !steps[key(p)] {
			out = append(out, p)
		}
	}
	return capList(out, MaxKeyPoints)
}

// filterPitfalls keeps named failure modes and drops instructions.
func filterPitfalls(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range dedupe(dropGeneric(clean(in))) {
		if !verbLed(p) {
			out = append(out, p)
		}
	}
	return capList(out, MaxPitfalls)
}

func verbLed(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	w := strings.ToLower(strings.Trim(f[0], ".,:;!\"'"))
	return procedureVerbs[w]
}
