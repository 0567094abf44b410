package domain

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard is the schedulable unit. Scheduling state (ease factor, interval,
// repetitions, next review date) is mutated exclusively through the SM-2
// scheduler output applied by the study service; card content is opaque here.
type Flashcard struct {
	ID             uuid.UUID
	DeckID         uuid.UUID
	Front          string
	Back           string
	EaseFactor     float64 // never below MinEaseFactor (1.3)
	IntervalDays   int     // non-negative; 0 until first review
	Repetitions    int     // consecutive successful reviews
	NextReviewDate time.Time
	LastReviewedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDue reports whether the card should be reviewed on the given date.
// A card due exactly on asOf counts as due (inclusive boundary).
func (f *Flashcard) IsDue(asOf time.Time) bool {
	return !f.NextReviewDate.After(asOf)
}

// SchedulingUpdate holds the fields written to a flashcard after a review.
type SchedulingUpdate struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewDate time.Time
	LastReviewedAt time.Time
}
