package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type deckRepo interface {
	GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	TouchLastStudied(ctx context.Context, deckID uuid.UUID, at time.Time) error
}

type flashcardRepo interface {
	GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	GetByIDForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	UpdateScheduling(ctx context.Context, cardID uuid.UUID, params domain.SchedulingUpdate) (*domain.Flashcard, error)
	ListDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error)
	CountDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) (int, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error)
	IncrementReviewed(ctx context.Context, sessionID uuid.UUID) error
	Complete(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, durationSeconds *int) (*domain.StudySession, error)
}

type reviewRepo interface {
	Create(ctx context.Context, review *domain.CardReview) (*domain.CardReview, error)
	GetOverview(ctx context.Context, userID uuid.UUID, dayStart time.Time) (domain.StudyStats, error)
	GetDailyCounts(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayReviewCount, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study business logic: the SM-2 scheduler, the
// due-card selector, and the session lifecycle. All durable state lives in
// the injected repositories; the service itself is stateless between calls.
type Service struct {
	decks     deckRepo
	cards     flashcardRepo
	sessions  sessionRepo
	reviews   reviewRepo
	tx        txManager
	log       *slog.Logger
	srsConfig domain.SRSConfig
	now       func() time.Time
}

// NewService creates a new study service.
func NewService(
	log *slog.Logger,
	decks deckRepo,
	cards flashcardRepo,
	sessions sessionRepo,
	reviews reviewRepo,
	tx txManager,
	srsConfig domain.SRSConfig,
) *Service {
	return &Service{
		decks:     decks,
		cards:     cards,
		sessions:  sessions,
		reviews:   reviews,
		tx:        tx,
		log:       log.With("service", "study"),
		srsConfig: srsConfig,
		now:       time.Now,
	}
}

// today returns the current date truncated to midnight UTC. Scheduling is
// date-based: a card reviewed at 23:59 with interval 1 is due tomorrow, not
// in 24 hours.
func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveOwnedDeck loads a deck and verifies the caller owns it.
func (s *Service) resolveOwnedDeck(ctx context.Context, deckID, userID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return deck, nil
}
