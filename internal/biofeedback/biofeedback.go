// Package biofeedback maps the trader's subjective state to a 0-100
// readiness score. The score gates access to the rest of the dashboard.
package biofeedback

// Meal categorizes the trader's last meal.
type Meal string

const (
	MealFasting   Meal = "fasting/coffee"
	MealHeavy     Meal = "heavy/fatty"
	MealSugar     Meal = "sugar/processed"
	MealNormal    Meal = "normal"
	MealLightFare Meal = "light/healthy"
)

// DefaultGateThreshold is the score required to unlock the full dashboard.
const DefaultGateThreshold = 70

// State holds the five questionnaire inputs.
type State struct {
	Mood       int  `yaml:"mood"`        // 1-10
	SleepHours int  `yaml:"sleep_hours"` // 0-12
	Stress     int  `yaml:"stress"`      // 1-10
	Meal       Meal `yaml:"meal"`
	Nature     bool `yaml:"nature"` // nature contact or exercise today
}

// Result is the readiness score with its explanatory reasons, in the order
// the adjustments were applied.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Score is a pure function of the five inputs. Base is 50 + 5*mood;
// penalties and the single bonus apply in a fixed order, each appending its
// reason; the final score is clamped to [0,100].
func Score(s State) Result {
	score := 50 + 5*s.Mood
	var reasons []string

	if s.SleepHours < 6 {
		score -= 30
		reasons = append(reasons, "Insufficient sleep: reduced cognition and impulse control.")
	}
	if s.Stress > 7 {
		score -= 40
		reasons = append(reasons, "Cortisol alert: tunnel vision imminent, high revenge-trading risk.")
	}
	if s.Meal == MealSugar {
		score -= 20
		reasons = append(reasons, "Glycemic spike: brain fog likely soon.")
	}
	if s.Nature {
		score += 20
		reasons = append(reasons, "Nature factor: increased mental clarity.")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Result{Score: score, Reasons: reasons}
}

// Unlocked reports whether the score clears the dashboard gate.
func Unlocked(r Result, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultGateThreshold
	}
	return r.Score >= threshold
}
