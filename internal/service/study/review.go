package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/pkg/ctxutil"
)

// ReviewCard records one review: it runs the SM-2 scheduler on the card's
// current state, persists the new scheduling fields, appends an immutable
// CardReview event, and bumps the session counter when a session is given.
// The card update, review append, and counter bump commit as one transaction;
// an error anywhere leaves no partial state behind.
func (s *Service) ReviewCard(ctx context.Context, input ReviewCardInput) (*domain.Flashcard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Ownership runs through the deck: the card itself has no owner column.
	card, err := s.cards.GetByID(ctx, input.FlashcardID)
	if err != nil {
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	deck, err := s.decks.GetByID(ctx, card.DeckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	if deck.UserID != userID {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	today := s.today()

	var updated *domain.Flashcard

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read under a row lock so concurrent reviews of the same card
		// serialize instead of racing on the scheduling state.
		locked, lockErr := s.cards.GetByIDForUpdate(txCtx, card.ID)
		if lockErr != nil {
			return fmt.Errorf("lock flashcard: %w", lockErr)
		}

		result, calcErr := CalculateSM2(SM2Input{
			Quality:       input.Quality,
			Repetitions:   locked.Repetitions,
			EaseFactor:    locked.EaseFactor,
			IntervalDays:  locked.IntervalDays,
			MinEaseFactor: s.srsConfig.MinEaseFactor,
		})
		if calcErr != nil {
			return calcErr
		}

		var updErr error
		updated, updErr = s.cards.UpdateScheduling(txCtx, locked.ID, domain.SchedulingUpdate{
			EaseFactor:     result.EaseFactor,
			IntervalDays:   result.IntervalDays,
			Repetitions:    result.Repetitions,
			NextReviewDate: today.AddDate(0, 0, result.IntervalDays),
			LastReviewedAt: now,
		})
		if updErr != nil {
			return fmt.Errorf("update flashcard: %w", updErr)
		}

		if _, revErr := s.reviews.Create(txCtx, &domain.CardReview{
			ID:                 uuid.New(),
			SessionID:          input.SessionID,
			FlashcardID:        locked.ID,
			UserID:             userID,
			Quality:            input.Quality,
			ResponseTimeMs:     input.ResponseTimeMs,
			PreviousInterval:   locked.IntervalDays,
			NewInterval:        result.IntervalDays,
			PreviousEaseFactor: locked.EaseFactor,
			NewEaseFactor:      result.EaseFactor,
			ReviewedAt:         now,
		}); revErr != nil {
			return fmt.Errorf("create card review: %w", revErr)
		}

		if input.SessionID != nil {
			if incErr := s.sessions.IncrementReviewed(txCtx, *input.SessionID); incErr != nil {
				return fmt.Errorf("increment session counter: %w", incErr)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "card reviewed",
		slog.String("user_id", userID.String()),
		slog.String("flashcard_id", card.ID.String()),
		slog.String("quality", input.Quality.Label()),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Time("next_review", updated.NextReviewDate),
	)

	return updated, nil
}

// dayStart returns midnight of the given instant in UTC.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
