package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brainkit/brainkit-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDeck creates a deck owned by userID and returns the filled domain.Deck.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Deck {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	deck := domain.Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Test Deck " + suffix,
		Description: "seeded deck " + suffix,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO decks (id, user_id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck insert: %v", err)
	}

	return deck
}

// FlashcardParams overrides scheduling fields on a seeded flashcard.
// Zero values fall back to a fresh card: ease 2.5, interval 0, zero
// repetitions, due immediately.
type FlashcardParams struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewDate time.Time
	LastReviewedAt *time.Time
}

// SeedFlashcard creates a flashcard in the given deck and returns it.
func SeedFlashcard(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID, params FlashcardParams) domain.Flashcard {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)

	if params.EaseFactor == 0 {
		params.EaseFactor = 2.5
	}
	if params.NextReviewDate.IsZero() {
		params.NextReviewDate = now.Truncate(24 * time.Hour)
	}

	card := domain.Flashcard{
		ID:             uuid.New(),
		DeckID:         deckID,
		Front:          "front " + suffix,
		Back:           "back " + suffix,
		EaseFactor:     params.EaseFactor,
		IntervalDays:   params.IntervalDays,
		Repetitions:    params.Repetitions,
		NextReviewDate: params.NextReviewDate,
		LastReviewedAt: params.LastReviewedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO flashcards (id, deck_id, front, back, ease_factor, interval_days,
		                         repetitions, next_review_date, last_reviewed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		card.ID, card.DeckID, card.Front, card.Back, card.EaseFactor, card.IntervalDays,
		card.Repetitions, card.NextReviewDate, card.LastReviewedAt, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFlashcard insert: %v", err)
	}

	return card
}

// SeedSession creates an active study session for the given user and deck.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID, deckID uuid.UUID) domain.StudySession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	session := domain.StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		DeckID:    deckID,
		StartedAt: now,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO study_sessions (id, user_id, deck_id, cards_reviewed, started_at, created_at)
		 VALUES ($1, $2, $3, 0, $4, $5)`,
		session.ID, session.UserID, session.DeckID, session.StartedAt, session.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession insert: %v", err)
	}

	return session
}

// SeedReview inserts a card review row with the given quality and timestamp.
func SeedReview(t *testing.T, pool *pgxpool.Pool, userID, flashcardID uuid.UUID, quality domain.Quality, reviewedAt time.Time) domain.CardReview {
	t.Helper()
	ctx := context.Background()

	review := domain.CardReview{
		ID:                 uuid.New(),
		FlashcardID:        flashcardID,
		UserID:             userID,
		Quality:            quality,
		PreviousInterval:   0,
		NewInterval:        1,
		PreviousEaseFactor: 2.5,
		NewEaseFactor:      2.36,
		ReviewedAt:         reviewedAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO card_reviews (id, flashcard_id, user_id, quality, previous_interval,
		                           new_interval, previous_ease_factor, new_ease_factor, reviewed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		review.ID, review.FlashcardID, review.UserID, int(review.Quality), review.PreviousInterval,
		review.NewInterval, review.PreviousEaseFactor, review.NewEaseFactor, review.ReviewedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReview insert: %v", err)
	}

	return review
}
