package study

import (
	"github.com/brainkit/brainkit-backend/internal/domain"
)

// SM2Input holds all data needed for one SM-2 calculation. Pure value, no
// side effects.
type SM2Input struct {
	Quality       domain.Quality
	Repetitions   int
	EaseFactor    float64
	IntervalDays  int
	MinEaseFactor float64
}

// SM2Output is the result of an SM-2 calculation.
type SM2Output struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
}

// CalculateSM2 implements the SuperMemo SM-2 recurrence. Pure function: no
// DB, no context, no logger; deterministic for a given input and safe to call
// concurrently.
//
// Quality 1 (Hard) models a failed recall: repetitions reset to zero and the
// card comes back tomorrow. Quality 3 and 5 advance the repetition ladder:
// interval 1 on the first success, 6 on the second, then interval × ease
// truncated toward zero. Truncation (not rounding) is load-bearing: stored
// intervals must reproduce the original schedule exactly.
//
// The ease factor update always applies to the ease the card came in with,
// even on the failure branch; ease tracks answer quality independently of
// the repetition reset. The result is clamped to MinEaseFactor.
func CalculateSM2(in SM2Input) (SM2Output, error) {
	if !in.Quality.IsValid() {
		return SM2Output{}, domain.NewValidationError("quality", "must be 1 (Hard), 3 (Good), or 5 (Easy)")
	}

	var out SM2Output

	if in.Quality < domain.QualityGood {
		out.Repetitions = 0
		out.IntervalDays = 1
	} else {
		out.Repetitions = in.Repetitions + 1
		switch out.Repetitions {
		case 1:
			out.IntervalDays = 1
		case 2:
			out.IntervalDays = 6
		default:
			out.IntervalDays = int(float64(in.IntervalDays) * in.EaseFactor)
		}
	}

	q := float64(in.Quality)
	ease := in.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < in.MinEaseFactor {
		ease = in.MinEaseFactor
	}
	out.EaseFactor = ease

	return out, nil
}
