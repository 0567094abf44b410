// Package review implements the card review repository using PostgreSQL.
// Reviews are append-only; statistics are aggregated entirely in SQL.
package review

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

// Repo provides card review persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const reviewColumns = `id, session_id, flashcard_id, user_id, quality, response_time_ms,
       previous_interval, new_interval, previous_ease_factor, new_ease_factor, reviewed_at`

const createSQL = `
INSERT INTO card_reviews (id, session_id, flashcard_id, user_id, quality, response_time_ms,
                          previous_interval, new_interval, previous_ease_factor, new_ease_factor, reviewed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + reviewColumns

const getOverviewSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE reviewed_at >= $2) AS today,
    count(*) FILTER (WHERE quality = 1) AS hard,
    count(*) FILTER (WHERE quality = 3) AS good,
    count(*) FILTER (WHERE quality = 5) AS easy,
    avg(response_time_ms) FILTER (WHERE response_time_ms IS NOT NULL) AS avg_response_ms
FROM card_reviews
WHERE user_id = $1`

const getDailyCountsSQL = `
SELECT
    date_trunc('day', reviewed_at)::date AS review_date,
    count(*) AS review_count
FROM card_reviews
WHERE user_id = $1 AND reviewed_at >= $2
GROUP BY review_date
ORDER BY review_date DESC`

// Create appends a review record and returns the persisted row.
func (r *Repo) Create(ctx context.Context, review *domain.CardReview) (*domain.CardReview, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rec, err := scanReview(querier.QueryRow(ctx, createSQL,
		review.ID, review.SessionID, review.FlashcardID, review.UserID,
		int(review.Quality), review.ResponseTimeMs,
		review.PreviousInterval, review.NewInterval,
		review.PreviousEaseFactor, review.NewEaseFactor, review.ReviewedAt,
	))
	if err != nil {
		return nil, mapError(err, "card_review", review.ID)
	}

	return rec, nil
}

// GetOverview aggregates a user's review history: total and today's counts,
// quality distribution, and average response time. StreakDays is left zero;
// the service derives it from GetDailyCounts.
func (r *Repo) GetOverview(ctx context.Context, userID uuid.UUID, dayStart time.Time) (domain.StudyStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var stats domain.StudyStats
	var avgResponse *float64
	err := querier.QueryRow(ctx, getOverviewSQL, userID, dayStart).Scan(
		&stats.TotalReviews, &stats.ReviewsToday,
		&stats.QualityCounts.Hard, &stats.QualityCounts.Good, &stats.QualityCounts.Easy,
		&avgResponse,
	)
	if err != nil {
		return domain.StudyStats{}, fmt.Errorf("get review overview: %w", err)
	}

	if avgResponse != nil {
		v := int(*avgResponse)
		stats.AvgResponseTimeMs = &v
	}

	return stats, nil
}

// GetDailyCounts returns per-day review counts for a user since the given
// time, ordered by date DESC. Days without reviews are absent.
func (r *Repo) GetDailyCounts(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayReviewCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getDailyCountsSQL, userID, since)
	if err != nil {
		return nil, fmt.Errorf("get daily review counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.DayReviewCount{}
	for rows.Next() {
		var dc domain.DayReviewCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}

	return counts, nil
}

// scanReview scans a single card review row.
func scanReview(row pgx.Row) (*domain.CardReview, error) {
	var rec domain.CardReview
	var quality int
	err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.FlashcardID, &rec.UserID, &quality, &rec.ResponseTimeMs,
		&rec.PreviousInterval, &rec.NewInterval, &rec.PreviousEaseFactor, &rec.NewEaseFactor, &rec.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Quality = domain.Quality(quality)
	return &rec, nil
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
