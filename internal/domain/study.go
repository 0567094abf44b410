package domain

import (
	"time"

	"github.com/google/uuid"
)

// SRSConfig holds the SM-2 algorithm parameters (pure domain type).
type SRSConfig struct {
	DefaultEaseFactor float64
	MinEaseFactor     float64
}

// StudySession is one study pass over a deck's due cards.
//
// A session is Active while CompletedAt is nil and Completed once it is set.
// Completed is terminal; sessions are never reopened. No session row is
// created when a deck has zero due cards at start time.
type StudySession struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	DeckID          uuid.UUID
	CardsReviewed   int
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *int
	CreatedAt       time.Time
}

// IsCompleted reports whether the session has reached its terminal state.
func (s *StudySession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// CardReview is the immutable record of a single review action. Rows are
// write-once: corrections are modeled as new events, never as updates.
type CardReview struct {
	ID                 uuid.UUID
	SessionID          *uuid.UUID // nil for reviews outside a session
	FlashcardID        uuid.UUID
	UserID             uuid.UUID
	Quality            Quality
	ResponseTimeMs     *int
	PreviousInterval   int
	NewInterval        int
	PreviousEaseFactor float64
	NewEaseFactor      float64
	ReviewedAt         time.Time
}

// QualityCounts holds per-rating review counters.
type QualityCounts struct {
	Hard int
	Good int
	Easy int
}

// StudyStats holds aggregated review statistics computed in SQL.
type StudyStats struct {
	ReviewsToday      int
	TotalReviews      int
	StreakDays        int
	QualityCounts     QualityCounts
	AvgResponseTimeMs *int
}

// DayReviewCount holds the review count for a specific date.
type DayReviewCount struct {
	Date  time.Time
	Count int
}
