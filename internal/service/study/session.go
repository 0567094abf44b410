package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/pkg/ctxutil"
)

// StartSession starts a study pass over a deck. It pulls the deck's due
// cards first; when nothing is due it returns a nil session and creates no
// row, keeping the session history free of empty passes.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*StartSessionResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.resolveOwnedDeck(ctx, input.DeckID, userID); err != nil {
		return nil, fmt.Errorf("resolve deck: %w", err)
	}

	dueCards, err := s.cards.ListDue(ctx, input.DeckID, s.today())
	if err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}

	if len(dueCards) == 0 {
		return &StartSessionResult{
			Session:  nil,
			DueCards: []*domain.Flashcard{},
			DueCount: 0,
		}, nil
	}

	session, err := s.sessions.Create(ctx, &domain.StudySession{
		ID:            uuid.New(),
		UserID:        userID,
		DeckID:        input.DeckID,
		CardsReviewed: 0,
		StartedAt:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.InfoContext(ctx, "session started",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", input.DeckID.String()),
		slog.String("session_id", session.ID.String()),
		slog.Int("due_count", len(dueCards)),
	)

	return &StartSessionResult{
		Session:  session,
		DueCards: dueCards,
		DueCount: len(dueCards),
	}, nil
}

// CompleteSession transitions a session to its terminal Completed state,
// touches the deck's last_studied_at, and returns the deck's remaining due
// count so callers can show "X cards remaining" without a second round trip.
func (s *Service) CompleteSession(ctx context.Context, input CompleteSessionInput) (*CompleteSessionResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("session already completed: %w", domain.ErrConflict)
	}

	now := s.now()
	var completed *domain.StudySession

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var cErr error
		completed, cErr = s.sessions.Complete(txCtx, session.ID, now, input.DurationSeconds)
		if cErr != nil {
			return fmt.Errorf("complete session: %w", cErr)
		}

		if tErr := s.decks.TouchLastStudied(txCtx, session.DeckID, now); tErr != nil {
			return fmt.Errorf("touch deck: %w", tErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	remaining, err := s.cards.CountDue(ctx, session.DeckID, s.today())
	if err != nil {
		return nil, fmt.Errorf("count remaining due cards: %w", err)
	}

	s.log.InfoContext(ctx, "session completed",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", completed.CardsReviewed),
		slog.Int("cards_remaining", remaining),
	)

	return &CompleteSessionResult{
		Session:        completed,
		CardsRemaining: remaining,
	}, nil
}
