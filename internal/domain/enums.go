package domain

import "fmt"

// Quality is the learner's self-reported recall rating on the three-point
// scale used by the scheduler: 1 = Hard, 3 = Good, 5 = Easy.
//
// Intermediate SM-2 values (0, 2, 4) are deliberately rejected; the product
// exposes three rating buttons, and the stored scale must stay stable.
type Quality int

const (
	QualityHard Quality = 1
	QualityGood Quality = 3
	QualityEasy Quality = 5
)

func (q Quality) IsValid() bool {
	switch q {
	case QualityHard, QualityGood, QualityEasy:
		return true
	}
	return false
}

// Label returns the human-readable name of the rating.
func (q Quality) Label() string {
	switch q {
	case QualityHard:
		return "Hard"
	case QualityGood:
		return "Good"
	case QualityEasy:
		return "Easy"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

func (q Quality) String() string { return fmt.Sprintf("%d", int(q)) }
