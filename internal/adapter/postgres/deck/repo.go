// Package deck implements the deck repository using PostgreSQL.
// Queries are assembled with squirrel.
package deck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/brainkit/brainkit-backend/internal/adapter/postgres"
	"github.com/brainkit/brainkit-backend/internal/domain"
)

// qb builds queries with PostgreSQL positional placeholders.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var deckColumns = []string{
	"id", "user_id", "name", "description", "last_studied_at", "created_at", "updated_at",
}

// Repo provides deck persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new deck repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a deck by primary key.
// Returns domain.ErrNotFound if no such deck exists.
func (r *Repo) GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	sql, args, err := qb.Select(deckColumns...).
		From("decks").
		Where(squirrel.Eq{"id": deckID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deck query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var d domain.Deck
	err = querier.QueryRow(ctx, sql, args...).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Description,
		&d.LastStudiedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "deck", deckID)
	}

	return &d, nil
}

// TouchLastStudied records study activity on a deck.
// Returns domain.ErrNotFound if the deck does not exist.
func (r *Repo) TouchLastStudied(ctx context.Context, deckID uuid.UUID, at time.Time) error {
	sql, args, err := qb.Update("decks").
		Set("last_studied_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": deckID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deck update: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "deck", deckID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deck %s: %w", deckID, domain.ErrNotFound)
	}

	return nil
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
