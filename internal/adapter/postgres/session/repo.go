// Package session implements the study session repository using PostgreSQL.
// The cards_reviewed counter is incremented in SQL so concurrent reviews
// never lose updates.
package session

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

// Repo provides study session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new study session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sessionColumns = `id, user_id, deck_id, cards_reviewed, started_at,
       completed_at, duration_seconds, created_at`

const createSQL = `
INSERT INTO study_sessions (id, user_id, deck_id, cards_reviewed, started_at, created_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE id = $1`

const incrementReviewedSQL = `
UPDATE study_sessions
SET cards_reviewed = cards_reviewed + 1
WHERE id = $1`

const completeSQL = `
UPDATE study_sessions
SET completed_at = $2, duration_seconds = $3
WHERE id = $1 AND completed_at IS NULL
RETURNING ` + sessionColumns

// Create inserts a new study session and returns the persisted row.
func (r *Repo) Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, createSQL,
		session.ID, session.UserID, session.DeckID, session.CardsReviewed, session.StartedAt,
	))
	if err != nil {
		return nil, mapError(err, "study_session", session.ID)
	}

	return s, nil
}

// GetByID returns a study session by primary key.
// Returns domain.ErrNotFound if no such session exists.
func (r *Repo) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getByIDSQL, sessionID))
	if err != nil {
		return nil, mapError(err, "study_session", sessionID)
	}

	return s, nil
}

// IncrementReviewed bumps cards_reviewed by one atomically.
// Returns domain.ErrNotFound if the session does not exist.
func (r *Repo) IncrementReviewed(ctx context.Context, sessionID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, incrementReviewedSQL, sessionID)
	if err != nil {
		return mapError(err, "study_session", sessionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("study_session %s: %w", sessionID, domain.ErrNotFound)
	}

	return nil
}

// Complete marks a session finished and returns the updated row. The guard on
// completed_at makes completion first-writer-wins: a second caller gets
// domain.ErrConflict instead of overwriting the recorded end time.
func (r *Repo) Complete(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, durationSeconds *int) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, completeSQL, sessionID, completedAt, durationSeconds))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("study_session %s: already completed or missing: %w", sessionID, domain.ErrConflict)
		}
		return nil, mapError(err, "study_session", sessionID)
	}

	return s, nil
}

// scanSession scans a single study session row.
func scanSession(row pgx.Row) (*domain.StudySession, error) {
	var s domain.StudySession
	err := row.Scan(
		&s.ID, &s.UserID, &s.DeckID, &s.CardsReviewed, &s.StartedAt,
		&s.CompletedAt, &s.DurationSeconds, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
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
