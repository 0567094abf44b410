// Package flashcard implements the flashcard repository using PostgreSQL.
// Scheduling updates run with row-level locking (SELECT ... FOR UPDATE) so
// concurrent reviews of the same card serialize instead of racing.
package flashcard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/brainkit/brainkit-backend/internal/adapter/postgres"
	"github.com/brainkit/brainkit-backend/internal/domain"
)

// Repo provides flashcard persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new flashcard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const flashcardColumns = `id, deck_id, front, back, ease_factor, interval_days,
       repetitions, next_review_date, last_reviewed_at, created_at, updated_at`

const getByIDSQL = `
SELECT ` + flashcardColumns + `
FROM flashcards
WHERE id = $1`

const getByIDForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const listDueSQL = `
SELECT ` + flashcardColumns + `
FROM flashcards
WHERE deck_id = $1 AND next_review_date <= $2
ORDER BY next_review_date ASC, created_at ASC`

const countDueSQL = `
SELECT count(*)
FROM flashcards
WHERE deck_id = $1 AND next_review_date <= $2`

const updateSchedulingSQL = `
UPDATE flashcards
SET ease_factor      = $2,
    interval_days    = $3,
    repetitions      = $4,
    next_review_date = $5,
    last_reviewed_at = $6,
    updated_at       = $6
WHERE id = $1
RETURNING ` + flashcardColumns

// GetByID returns a flashcard by primary key.
// Returns domain.ErrNotFound if no such card exists.
func (r *Repo) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	card, err := scanFlashcard(querier.QueryRow(ctx, getByIDSQL, cardID))
	if err != nil {
		return nil, mapError(err, "flashcard", cardID)
	}

	return card, nil
}

// GetByIDForUpdate returns a flashcard with its row locked for the duration
// of the surrounding transaction. Call only inside TxManager.RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	card, err := scanFlashcard(querier.QueryRow(ctx, getByIDForUpdateSQL, cardID))
	if err != nil {
		return nil, mapError(err, "flashcard", cardID)
	}

	return card, nil
}

// ListDue returns cards in a deck with next_review_date at or before asOf,
// most overdue first.
func (r *Repo) ListDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listDueSQL, deckID, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due flashcards: %w", err)
	}
	defer rows.Close()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flashcards: %w", err)
	}

	return cards, nil
}

// CountDue returns the number of cards due in a deck as of the given time.
func (r *Repo) CountDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countDueSQL, deckID, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due flashcards: %w", err)
	}

	return count, nil
}

// UpdateScheduling writes the post-review scheduling state and returns the
// updated card. Returns domain.ErrNotFound if the card does not exist.
func (r *Repo) UpdateScheduling(ctx context.Context, cardID uuid.UUID, params domain.SchedulingUpdate) (*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	card, err := scanFlashcard(querier.QueryRow(ctx, updateSchedulingSQL,
		cardID, params.EaseFactor, params.IntervalDays, params.Repetitions,
		params.NextReviewDate, params.LastReviewedAt,
	))
	if err != nil {
		return nil, mapError(err, "flashcard", cardID)
	}

	return card, nil
}

// scanFlashcard scans a single flashcard row.
func scanFlashcard(row pgx.Row) (*domain.Flashcard, error) {
	var c domain.Flashcard
	err := row.Scan(
		&c.ID, &c.DeckID, &c.Front, &c.Back, &c.EaseFactor, &c.IntervalDays,
		&c.Repetitions, &c.NextReviewDate, &c.LastReviewedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
