package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/pkg/ctxutil"
)

// GetDueCards returns the deck's cards whose next review date has arrived,
// ordered oldest-due-first. The call is read-only and idempotent: two calls
// with no intervening review return the same sequence.
func (s *Service) GetDueCards(ctx context.Context, input GetDueCardsInput) ([]*domain.Flashcard, error) {
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

	cards, err := s.cards.ListDue(ctx, input.DeckID, s.today())
	if err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}

	s.log.InfoContext(ctx, "due cards fetched",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", input.DeckID.String()),
		slog.Int("due_count", len(cards)),
	)

	return cards, nil
}
