package rest

import (
	"context"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/internal/service/study"
)

// Hand-rolled test doubles in the moq style: one Func field per interface
// method. Handlers are thin, so recorded calls are not needed here.

type studyServiceMock struct {
	StartSessionFunc    func(ctx context.Context, input study.StartSessionInput) (*study.StartSessionResult, error)
	GetDueCardsFunc     func(ctx context.Context, input study.GetDueCardsInput) ([]*domain.Flashcard, error)
	ReviewCardFunc      func(ctx context.Context, input study.ReviewCardInput) (*domain.Flashcard, error)
	CompleteSessionFunc func(ctx context.Context, input study.CompleteSessionInput) (*study.CompleteSessionResult, error)
	StatsFunc           func(ctx context.Context) (*domain.StudyStats, error)
}

func (m *studyServiceMock) StartSession(ctx context.Context, input study.StartSessionInput) (*study.StartSessionResult, error) {
	return m.StartSessionFunc(ctx, input)
}

func (m *studyServiceMock) GetDueCards(ctx context.Context, input study.GetDueCardsInput) ([]*domain.Flashcard, error) {
	return m.GetDueCardsFunc(ctx, input)
}

func (m *studyServiceMock) ReviewCard(ctx context.Context, input study.ReviewCardInput) (*domain.Flashcard, error) {
	return m.ReviewCardFunc(ctx, input)
}

func (m *studyServiceMock) CompleteSession(ctx context.Context, input study.CompleteSessionInput) (*study.CompleteSessionResult, error) {
	return m.CompleteSessionFunc(ctx, input)
}

func (m *studyServiceMock) Stats(ctx context.Context) (*domain.StudyStats, error) {
	return m.StatsFunc(ctx)
}

type dbPingerMock struct {
	PingFunc func(ctx context.Context) error
}

func (m *dbPingerMock) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
