package stepgen

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Topic is the coarse problem class used by the fallback generator.
type Topic string

const (
	TopicProjectile Topic = "projectile"
	TopicMomentum   Topic = "momentum"
	TopicForces     Topic = "forces"
	TopicKinematics Topic = "kinematics"
)

// topicKeywords are checked in order; the first topic with a matching
// keyword wins and kinematics is the default.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicProjectile, []string{"projectile", "horizontally", "launched", "trajectory", "cliff", "thrown at an angle", "range of"}},
	{TopicMomentum, []string{"momentum", "collision", "collides", "collide", "impulse", "recoil", "explodes"}},
	{TopicForces, []string{"force", "newton", "friction", "tension", "resultant", "weight", "n/kg"}},
}

// ClassifyTopic picks the fallback topic for a problem text.
func ClassifyTopic(text string) Topic {
	t := strings.ToLower(text)
	for _, tk := range topicKeywords {
		for _, k := range tk.keywords {
			if strings.Contains(t, k) {
				return tk.topic
			}
		}
	}
	return TopicKinematics
}

// Fallback builds a deterministic step sequence and solution from
// keyword heuristics. It is used whenever the oracle cannot be read and
// always returns exactly clamp(q.Marks) steps.
func Fallback(q Question) *Result {
	var (
		steps []Step
		sol   Solution
	)
	switch ClassifyTopic(q.Text()) {
	case TopicProjectile:
		steps, sol = projectileFallback(q.Text())
	case TopicMomentum:
		steps, sol = momentumFallback()
	case TopicForces:
		steps, sol = forcesFallback()
	default:
		steps, sol = kinematicsFallback()
	}
	return &Result{
		Steps:    Repair(spreadAnswers(steps), q.Marks),
		Solution: normalizeSolution(sol),
		Source:   SourceFallback,
	}
}

// spreadAnswers moves each step's correct option, written first in the
// canned tables, to position i mod 4.
func spreadAnswers(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		if len(s.Options) == 0 {
			out[i] = s
			continue
		}
		opts := append([]string(nil), s.Options...)
		j := i % len(opts)
		opts[0], opts[j] = opts[j], opts[0]
		s.Options = opts
		s.CorrectAnswerIndex = j
		out[i] = s
	}
	return out
}

const fallbackG = 9.81

var (
	speedRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:m/s|m s-1|ms-1|m s⁻¹)`)
	heightRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m\b(?:[^/]|$)`)
)

// projectileFallback solves a horizontal launch when a height and a speed
// can be read from the text, and stays symbolic otherwise.
func projectileFallback(text string) ([]Step, Solution) {
	h, hasH := firstNumber(heightRe, text)
	u, hasU := firstNumber(speedRe, text)

	if !hasH || !hasU {
		return projectileSymbolic()
	}

	t := math.Sqrt(2 * h / fallbackG)
	r := u * t
	vy := fallbackG * t
	tStr, rStr, vyStr := sig3(t), sig3(r), sig3(vy)
	hStr, uStr := trimFloat(h), trimFloat(u)

	steps := []Step{
		{
			Question:           "Which component of the initial velocity is zero for a horizontal launch?",
			Options:            []string{"Vertical component", "Horizontal component", "Both components", "Neither component"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: a horizontal launch means every bit of the initial speed points sideways.",
			Explanation:        "The object leaves horizontally, so its initial vertical velocity is 0 m/s.",
		},
		{
			Question:           "Which equation gives the time to fall the height h from rest vertically?",
			Options:            []string{"h = ½gt²", "h = ut", "v = u + at", "h = gt"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: vertical motion starts from rest and accelerates uniformly at g.",
			Explanation:        "With zero initial vertical velocity, s = ut + ½at² reduces to h = ½gt².",
			CalculationStep:    &CalculationStep{Formula: "h = ½gt²"},
		},
		{
			Question:           fmt.Sprintf("What is the time of flight for a fall of %s m?", hStr),
			Options:            []string{tStr + " s", sig3(2*h/fallbackG) + " s", sig3(h/fallbackG) + " s", sig3(math.Sqrt(h/fallbackG)) + " s"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: rearrange the vertical fall equation for t and take the square root.",
			Explanation:        fmt.Sprintf("t = √(2h/g) = √(2 × %s / 9.81) = %s s.", hStr, tStr),
			CalculationStep: &CalculationStep{
				Formula:      "t = √(2h/g)",
				Substitution: fmt.Sprintf("t = √(2 × %s / 9.81)", hStr),
				Result:       tStr + " s",
			},
		},
		{
			Question:           "Why does the horizontal velocity stay constant during the flight?",
			Options:            []string{"No horizontal force acts if air resistance is ignored", "Gravity acts horizontally", "The object is in equilibrium", "Its momentum is zero"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: only gravity acts once the object is airborne, and it pulls straight down.",
			Explanation:        "With air resistance neglected there is no horizontal force, so horizontal acceleration is zero.",
		},
		{
			Question:           fmt.Sprintf("How far from the base does it land when launched at %s m/s?", uStr),
			Options:            []string{rStr + " m", sig3(u*t*t) + " m", sig3(u/t) + " m", sig3(h+u) + " m"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: horizontal distance is the constant horizontal speed multiplied by the flight time.",
			Explanation:        fmt.Sprintf("Range = u × t = %s × %s = %s m.", uStr, tStr, rStr),
			CalculationStep: &CalculationStep{
				Formula:      "R = ut",
				Substitution: fmt.Sprintf("R = %s × %s", uStr, tStr),
				Result:       rStr + " m",
			},
		},
		{
			Question:           "What is the vertical velocity just before impact?",
			Options:            []string{vyStr + " m/s", uStr + " m/s", "0 m/s", sig3(fallbackG) + " m/s"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: vertical speed grows by g every second, starting from zero at launch.",
			Explanation:        fmt.Sprintf("v = gt = 9.81 × %s = %s m/s.", tStr, vyStr),
			CalculationStep: &CalculationStep{
				Formula:      "v = gt",
				Substitution: fmt.Sprintf("v = 9.81 × %s", tStr),
				Result:       vyStr + " m/s",
			},
		},
	}

	sol := Solution{
		FinalAnswer: fmt.Sprintf("Time of flight %s s, horizontal distance %s m", tStr, rStr),
		Unit:        "m",
		WorkingSteps: []string{
			"Take the initial vertical velocity as zero",
			fmt.Sprintf("Use h = ½gt² to get t = √(2 × %s / 9.81) = %s s", hStr, tStr),
			fmt.Sprintf("Use R = ut to get R = %s × %s = %s m", uStr, tStr, rStr),
		},
		KeyFormulas: []string{"h = ½gt²", "R = ut", "v = gt"},
		KeyPoints: []string{
			"Horizontal and vertical motion are independent",
			"Horizontal velocity is constant when air resistance is ignored",
		},
		Pitfalls: []string{
			"Using the launch speed in the vertical equation",
			"Forgetting the square root when solving for time",
		},
	}
	return steps, sol
}

func projectileSymbolic() ([]Step, Solution) {
	steps := []Step{
		{
			Question:           "How should the motion of a projectile be analysed?",
			Options:            []string{"Split it into independent horizontal and vertical components", "Treat it as one straight-line motion", "Use only the horizontal motion", "Use only energy conservation"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: gravity only changes one direction of the motion, so treat directions separately.",
			Explanation:        "Horizontal and vertical motions are independent; the flight time links them.",
		},
		{
			Question:           "Which quantity links the horizontal and vertical motion?",
			Options:            []string{"Time of flight", "Mass", "Horizontal acceleration", "Launch height only"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: both components of the motion last for exactly the same duration.",
			Explanation:        "Both components share the same time of flight.",
		},
		{
			Question:           "What is the horizontal acceleration when air resistance is ignored?",
			Options:            []string{"0 m/s²", "9.81 m/s²", "-9.81 m/s²", "It depends on the launch speed"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: gravity pulls vertically, so no horizontal force acts during the flight.",
			Explanation:        "No horizontal force acts, so horizontal velocity is constant.",
		},
		{
			Question:           "Which equation gives the vertical displacement after time t?",
			Options:            []string{"s = u_y t + ½gt²", "s = u_x t", "v² = u² + 2as", "s = gt"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: vertical motion has uniform acceleration g, so use a suvat displacement equation.",
			Explanation:        "Vertical motion is uniformly accelerated at g.",
			CalculationStep:    &CalculationStep{Formula: "s = u_y t + ½gt²"},
		},
		{
			Question:           "How is the horizontal range found once the time of flight is known?",
			Options:            []string{"Multiply horizontal velocity by time", "Divide height by time", "Multiply g by time", "Add both velocity components"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: horizontal velocity is constant, so distance equals speed multiplied by time.",
			Explanation:        "R = u_x t because horizontal velocity does not change.",
			CalculationStep:    &CalculationStep{Formula: "R = u_x t"},
		},
	}
	sol := Solution{
		FinalAnswer:  "Range R = u_x t, with t from the vertical motion",
		WorkingSteps: []string{"Resolve the launch velocity into components", "Find the time of flight from the vertical motion", "Multiply the horizontal velocity by the time of flight"},
		KeyFormulas:  []string{"s = u_y t + ½gt²", "R = u_x t"},
		KeyPoints:    []string{"Horizontal and vertical motion are independent"},
		Pitfalls:     []string{"Mixing horizontal and vertical components in one equation"},
	}
	return steps, sol
}

func momentumFallback() ([]Step, Solution) {
	steps := []Step{
		{
			Question:           "Which quantity is conserved in a collision when no external force acts?",
			Options:            []string{"Total momentum", "Total kinetic energy", "Each object's velocity", "Each object's momentum"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: in an isolated system the sum of mass times velocity is unchanged.",
			Explanation:        "With no external resultant force the total momentum of the system is constant.",
		},
		{
			Question:           "How is the momentum of a single object calculated?",
			Options:            []string{"p = mv", "p = ½mv²", "p = ma", "p = m/v"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: momentum combines the mass with the velocity, including its direction.",
			Explanation:        "Momentum is mass multiplied by velocity and is a vector.",
			CalculationStep:    &CalculationStep{Formula: "p = mv"},
		},
		{
			Question:           "What must be done before adding momenta of objects moving in opposite directions?",
			Options:            []string{"Choose a positive direction and give opposing velocities a negative sign", "Add the speeds", "Ignore the slower object", "Square each velocity"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: momentum is a vector, so direction must be shown by a sign.",
			Explanation:        "Velocities in the opposite direction are negative in the chosen convention.",
		},
		{
			Question:           "Which equation expresses conservation of momentum for two bodies?",
			Options:            []string{"m₁u₁ + m₂u₂ = m₁v₁ + m₂v₂", "m₁u₁ = m₂v₂", "½m₁u₁² = ½m₂v₂²", "m₁v₁ = m₂u₂"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: total momentum of both bodies before equals total momentum of both after.",
			Explanation:        "Total momentum before the collision equals total momentum after.",
			CalculationStep:    &CalculationStep{Formula: "m₁u₁ + m₂u₂ = m₁v₁ + m₂v₂"},
		},
		{
			Question:           "How is the impulse on one object found?",
			Options:            []string{"Change in its momentum", "Its final kinetic energy", "Its mass times its acceleration", "Total momentum of the system"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: impulse equals force multiplied by time, which changes the object's momentum.",
			Explanation:        "Impulse FΔt equals the change in momentum Δp.",
			CalculationStep:    &CalculationStep{Formula: "FΔt = Δp"},
		},
	}
	sol := Solution{
		FinalAnswer:  "Solve m₁u₁ + m₂u₂ = m₁v₁ + m₂v₂ for the unknown velocity",
		Unit:         "m/s",
		WorkingSteps: []string{"Choose a positive direction", "Write the total momentum before the collision", "Equate it to the total momentum after and solve"},
		KeyFormulas:  []string{"p = mv", "m₁u₁ + m₂u₂ = m₁v₁ + m₂v₂", "FΔt = Δp"},
		KeyPoints:    []string{"Momentum is a vector quantity", "Kinetic energy is only conserved in elastic collisions"},
		Pitfalls:     []string{"Dropping the negative sign for opposite directions"},
	}
	return steps, sol
}

func forcesFallback() ([]Step, Solution) {
	steps := []Step{
		{
			Question:           "What is the first thing to do when analysing the forces on an object?",
			Options:            []string{"Draw a free-body diagram", "Calculate the acceleration", "Find the kinetic energy", "Measure the speed"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: identify every force and its direction before writing any equation.",
			Explanation:        "A free-body diagram shows every force acting and its direction.",
		},
		{
			Question:           "How is the weight of an object calculated?",
			Options:            []string{"W = mg", "W = m/g", "W = ma", "W = mv"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: weight is mass multiplied by the gravitational field strength at that place.",
			Explanation:        "Weight is the gravitational force W = mg.",
			CalculationStep:    &CalculationStep{Formula: "W = mg"},
		},
		{
			Question:           "How is the resultant force found from forces along one line?",
			Options:            []string{"Add them with signs for direction", "Add their magnitudes", "Take the largest force", "Multiply them together"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: forces in opposite directions partly cancel, so direction signs matter when combining.",
			Explanation:        "Forces in opposite directions subtract; the resultant is their vector sum.",
		},
		{
			Question:           "Which law links resultant force and acceleration?",
			Options:            []string{"F = ma", "F = mv", "F = mg only", "F = p/m"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: Newton's second law connects the net force with mass and acceleration.",
			Explanation:        "Newton's second law: resultant force equals mass times acceleration.",
			CalculationStep:    &CalculationStep{Formula: "F = ma"},
		},
		{
			Question:           "What is the acceleration of an object whose forces are balanced?",
			Options:            []string{"Zero", "g", "Equal to its speed", "It decreases steadily"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: balanced forces give a zero resultant, so the velocity cannot change.",
			Explanation:        "A zero resultant force means zero acceleration: constant velocity or rest.",
		},
	}
	sol := Solution{
		FinalAnswer:  "Resultant force F = ma, with the resultant found from the free-body diagram",
		Unit:         "N",
		WorkingSteps: []string{"Draw a free-body diagram", "Resolve and add the forces to find the resultant", "Apply F = ma"},
		KeyFormulas:  []string{"W = mg", "F = ma"},
		KeyPoints:    []string{"Only the resultant force causes acceleration"},
		Pitfalls:     []string{"Using mass in kilograms where weight in newtons is needed"},
	}
	return steps, sol
}

func kinematicsFallback() ([]Step, Solution) {
	steps := []Step{
		{
			Question:           "What should be listed before choosing a kinematics equation?",
			Options:            []string{"The known and unknown suvat quantities", "The mass of the object", "The forces acting", "The energy stored"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: write s, u, v, a and t, marking which three are given.",
			Explanation:        "Listing s, u, v, a, t shows which equation contains the known quantities.",
		},
		{
			Question:           "Which condition must hold to use the suvat equations?",
			Options:            []string{"Acceleration is constant", "Velocity is constant", "The object starts from rest", "The motion is horizontal"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: the equations of motion are derived assuming one fixed, unchanging acceleration.",
			Explanation:        "The suvat equations assume uniform acceleration.",
		},
		{
			Question:           "Which equation does not involve time?",
			Options:            []string{"v² = u² + 2as", "v = u + at", "s = ut + ½at²", "s = ½(u + v)t"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: look for the equation containing only velocities, acceleration and displacement.",
			Explanation:        "v² = u² + 2as links velocities, acceleration and displacement without t.",
			CalculationStep:    &CalculationStep{Formula: "v² = u² + 2as"},
		},
		{
			Question:           "Which equation gives final velocity from initial velocity, acceleration and time?",
			Options:            []string{"v = u + at", "v = u - s/t", "v = at²", "v = s/a"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: acceleration is the rate of change of velocity over the time interval.",
			Explanation:        "Rearranging a = (v - u)/t gives v = u + at.",
			CalculationStep:    &CalculationStep{Formula: "v = u + at"},
		},
		{
			Question:           "What does the area under a velocity-time graph represent?",
			Options:            []string{"Displacement", "Acceleration", "Speed", "Force"},
			CorrectAnswerIndex: 0,
			Hint:               "Hint: multiplying velocity by time gives a distance, which the area represents.",
			Explanation:        "The area under a v-t graph is the displacement.",
		},
	}
	sol := Solution{
		FinalAnswer:  "Apply the suvat equation linking the three known quantities to the unknown",
		WorkingSteps: []string{"List s, u, v, a and t", "Choose the equation without the unused quantity", "Substitute and solve"},
		KeyFormulas:  []string{"v = u + at", "s = ut + ½at²", "v² = u² + 2as"},
		KeyPoints:    []string{"suvat equations need constant acceleration"},
		Pitfalls:     []string{"Mixing up speed and displacement sign conventions"},
	}
	return steps, sol
}

func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// sig3 formats v to three significant figures.
func sig3(v float64) string {
	if v == 0 {
		return "0"
	}
	d := int(math.Ceil(math.Log10(math.Abs(v))))
	var r float64
	if d > 3 {
		p := math.Pow(10, float64(d-3))
		r = math.Round(v/p) * p
	} else {
		p := math.Pow(10, float64(3-d))
		r = math.Round(v*p) / p
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
