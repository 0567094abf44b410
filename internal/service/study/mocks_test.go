package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
)

// Hand-rolled test doubles in the moq style: one Func field per interface
// method, with recorded calls for the methods tests assert on.

type deckRepoMock struct {
	GetByIDFunc          func(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	TouchLastStudiedFunc func(ctx context.Context, deckID uuid.UUID, at time.Time) error

	mu                    sync.Mutex
	touchLastStudiedCalls []uuid.UUID
}

func (m *deckRepoMock) GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	return m.GetByIDFunc(ctx, deckID)
}

func (m *deckRepoMock) TouchLastStudied(ctx context.Context, deckID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	m.touchLastStudiedCalls = append(m.touchLastStudiedCalls, deckID)
	m.mu.Unlock()
	if m.TouchLastStudiedFunc == nil {
		return nil
	}
	return m.TouchLastStudiedFunc(ctx, deckID, at)
}

func (m *deckRepoMock) TouchLastStudiedCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.touchLastStudiedCalls...)
}

type flashcardRepoMock struct {
	GetByIDFunc          func(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	GetByIDForUpdateFunc func(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	UpdateSchedulingFunc func(ctx context.Context, cardID uuid.UUID, params domain.SchedulingUpdate) (*domain.Flashcard, error)
	ListDueFunc          func(ctx context.Context, deckID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error)
	CountDueFunc         func(ctx context.Context, deckID uuid.UUID, asOf time.Time) (int, error)

	mu                    sync.Mutex
	updateSchedulingCalls []domain.SchedulingUpdate
}

func (m *flashcardRepoMock) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	return m.GetByIDFunc(ctx, cardID)
}

func (m *flashcardRepoMock) GetByIDForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	return m.GetByIDForUpdateFunc(ctx, cardID)
}

func (m *flashcardRepoMock) UpdateScheduling(ctx context.Context, cardID uuid.UUID, params domain.SchedulingUpdate) (*domain.Flashcard, error) {
	m.mu.Lock()
	m.updateSchedulingCalls = append(m.updateSchedulingCalls, params)
	m.mu.Unlock()
	return m.UpdateSchedulingFunc(ctx, cardID, params)
}

func (m *flashcardRepoMock) UpdateSchedulingCalls() []domain.SchedulingUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SchedulingUpdate(nil), m.updateSchedulingCalls...)
}

func (m *flashcardRepoMock) ListDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) ([]*domain.Flashcard, error) {
	return m.ListDueFunc(ctx, deckID, asOf)
}

func (m *flashcardRepoMock) CountDue(ctx context.Context, deckID uuid.UUID, asOf time.Time) (int, error) {
	return m.CountDueFunc(ctx, deckID, asOf)
}

type sessionRepoMock struct {
	CreateFunc            func(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByIDFunc           func(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error)
	IncrementReviewedFunc func(ctx context.Context, sessionID uuid.UUID) error
	CompleteFunc          func(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, durationSeconds *int) (*domain.StudySession, error)

	mu                     sync.Mutex
	createCalls            []*domain.StudySession
	incrementReviewedCalls []uuid.UUID
}

func (m *sessionRepoMock) Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, session)
	m.mu.Unlock()
	return m.CreateFunc(ctx, session)
}

func (m *sessionRepoMock) CreateCalls() []*domain.StudySession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.StudySession(nil), m.createCalls...)
}

func (m *sessionRepoMock) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error) {
	return m.GetByIDFunc(ctx, sessionID)
}

func (m *sessionRepoMock) IncrementReviewed(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	m.incrementReviewedCalls = append(m.incrementReviewedCalls, sessionID)
	m.mu.Unlock()
	if m.IncrementReviewedFunc == nil {
		return nil
	}
	return m.IncrementReviewedFunc(ctx, sessionID)
}

func (m *sessionRepoMock) IncrementReviewedCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.incrementReviewedCalls...)
}

func (m *sessionRepoMock) Complete(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, durationSeconds *int) (*domain.StudySession, error) {
	return m.CompleteFunc(ctx, sessionID, completedAt, durationSeconds)
}

type reviewRepoMock struct {
	CreateFunc         func(ctx context.Context, review *domain.CardReview) (*domain.CardReview, error)
	GetOverviewFunc    func(ctx context.Context, userID uuid.UUID, dayStart time.Time) (domain.StudyStats, error)
	GetDailyCountsFunc func(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayReviewCount, error)

	mu          sync.Mutex
	createCalls []*domain.CardReview
}

func (m *reviewRepoMock) Create(ctx context.Context, review *domain.CardReview) (*domain.CardReview, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, review)
	m.mu.Unlock()
	return m.CreateFunc(ctx, review)
}

func (m *reviewRepoMock) CreateCalls() []*domain.CardReview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.CardReview(nil), m.createCalls...)
}

func (m *reviewRepoMock) GetOverview(ctx context.Context, userID uuid.UUID, dayStart time.Time) (domain.StudyStats, error) {
	return m.GetOverviewFunc(ctx, userID, dayStart)
}

func (m *reviewRepoMock) GetDailyCounts(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayReviewCount, error) {
	return m.GetDailyCountsFunc(ctx, userID, since)
}

// txManagerMock runs the callback inline, so repo mocks observe the same ctx.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

func ptr[T any](v T) *T { return &v }
