package insight

import "fmt"

// Thresholds for the fallback message branches.
const (
	perfectRating      = 4.5 // rating at or above this reads as "perfect"
	deepDiveMinutes    = 30  // average session longer than this reads as deep study
	disciplinedDaysMin = 5   // active days at or above this reads as disciplined
)

// Context is the structured input to message generation: the label plus the
// handful of numeric features the templates and the narrative provider use.
type Context struct {
	Label              string  `json:"label"`
	Rating             float64 `json:"rating"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	RevisitRate        float64 `json:"revisit_rate"`
	ActiveDays         int     `json:"active_days"`
	CompletedTutorials int     `json:"completed_tutorials"`
}

// FallbackMessage is the deterministic insight generator: a small decision
// table keyed by label with one threshold branch each. It is the default
// when no narrative provider is configured and the recovery path when the
// provider fails.
func FallbackMessage(c Context) string {
	switch c.Label {
	case LabelFast:
		if c.Rating >= perfectRating {
			return fmt.Sprintf(
				"Outstanding! You powered through %d tutorials at speed with a near-perfect rating (%.1f). Keep that momentum going!",
				c.CompletedTutorials, c.Rating)
		}
		return fmt.Sprintf(
			"Wow, you are moving fast — %d tutorials done already. Slowing down a touch could push your quiz ratings even higher.",
			c.CompletedTutorials)

	case LabelReflective:
		if c.AvgDurationMinutes > deepDiveMinutes {
			return fmt.Sprintf(
				"You are a deep thinker. Averaging %.0f minutes per tutorial shows real dedication, and your rating of %.1f proves it pays off!",
				c.AvgDurationMinutes, c.Rating)
		}
		return "Your learning style runs deep. The quality of your submissions shows strong understanding of the material."

	case LabelConsistent:
		if c.ActiveDays >= disciplinedDaysMin {
			return fmt.Sprintf(
				"Consistency champion! You showed up to learn on %d days. Discipline like that is the key to mastery.",
				c.ActiveDays)
		}
		return "Nice work! You keep finishing tutorials at a steady rhythm. Hold on to that learning cadence."

	default:
		return "No significant activity yet. Open one light tutorial today and get the ball rolling!"
	}
}
