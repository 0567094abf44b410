package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/internal/service/study"
)

// studyService defines the minimal interface needed by StudyHandler.
type studyService interface {
	StartSession(ctx context.Context, input study.StartSessionInput) (*study.StartSessionResult, error)
	GetDueCards(ctx context.Context, input study.GetDueCardsInput) ([]*domain.Flashcard, error)
	ReviewCard(ctx context.Context, input study.ReviewCardInput) (*domain.Flashcard, error)
	CompleteSession(ctx context.Context, input study.CompleteSessionInput) (*study.CompleteSessionResult, error)
	Stats(ctx context.Context) (*domain.StudyStats, error)
}

// StudyHandler serves the study REST endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

type reviewCardRequest struct {
	FlashcardID    string  `json:"flashcardId"`
	Quality        int     `json:"quality"`
	SessionID      *string `json:"sessionId,omitempty"`
	ResponseTimeMs *int    `json:"responseTimeMs,omitempty"`
}

type completeSessionRequest struct {
	SessionID       string `json:"sessionId"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
}

type flashcardResponse struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deckId"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	EaseFactor     float64    `json:"easeFactor"`
	IntervalDays   int        `json:"intervalDays"`
	Repetitions    int        `json:"repetitions"`
	NextReviewDate string     `json:"nextReviewDate"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`
}

type sessionResponse struct {
	ID              string     `json:"id"`
	DeckID          string     `json:"deckId"`
	CardsReviewed   int        `json:"cardsReviewed"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
}

type startSessionResponse struct {
	Session  *sessionResponse    `json:"session"`
	DueCards []flashcardResponse `json:"dueCards"`
	DueCount int                 `json:"dueCount"`
}

type dueCardsResponse struct {
	Cards []flashcardResponse `json:"cards"`
	Count int                 `json:"count"`
}

type completeSessionResponse struct {
	Session        sessionResponse `json:"session"`
	CardsRemaining int             `json:"cardsRemaining"`
}

type qualityCountsResponse struct {
	Hard int `json:"hard"`
	Good int `json:"good"`
	Easy int `json:"easy"`
}

type statsResponse struct {
	ReviewsToday      int                   `json:"reviewsToday"`
	TotalReviews      int                   `json:"totalReviews"`
	StreakDays        int                   `json:"streakDays"`
	QualityCounts     qualityCountsResponse `json:"qualityCounts"`
	AvgResponseTimeMs *int                  `json:"avgResponseTimeMs,omitempty"`
}

// StartSession handles POST /study/{deckID}/start.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(r.PathValue("deckID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}

	result, err := h.svc.StartSession(r.Context(), study.StartSessionInput{DeckID: deckID})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := startSessionResponse{
		DueCards: toFlashcardResponses(result.DueCards),
		DueCount: result.DueCount,
	}
	if result.Session != nil {
		s := toSessionResponse(result.Session)
		resp.Session = &s
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetDueCards handles GET /study/{deckID}/due.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(r.PathValue("deckID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}

	cards, err := h.svc.GetDueCards(r.Context(), study.GetDueCardsInput{DeckID: deckID})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dueCardsResponse{
		Cards: toFlashcardResponses(cards),
		Count: len(cards),
	})
}

// ReviewCard handles POST /study/review.
func (h *StudyHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	var req reviewCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flashcardID, err := uuid.Parse(req.FlashcardID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid flashcard id")
		return
	}

	var sessionID *uuid.UUID
	if req.SessionID != nil {
		id, err := uuid.Parse(*req.SessionID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		sessionID = &id
	}

	card, err := h.svc.ReviewCard(r.Context(), study.ReviewCardInput{
		FlashcardID:    flashcardID,
		Quality:        domain.Quality(req.Quality),
		SessionID:      sessionID,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFlashcardResponse(card))
}

// CompleteSession handles POST /study/complete.
func (h *StudyHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	result, err := h.svc.CompleteSession(r.Context(), study.CompleteSessionInput{
		SessionID:       sessionID,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, completeSessionResponse{
		Session:        toSessionResponse(result.Session),
		CardsRemaining: result.CardsRemaining,
	})
}

// Stats handles GET /study/stats.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		ReviewsToday: stats.ReviewsToday,
		TotalReviews: stats.TotalReviews,
		StreakDays:   stats.StreakDays,
		QualityCounts: qualityCountsResponse{
			Hard: stats.QualityCounts.Hard,
			Good: stats.QualityCounts.Good,
			Easy: stats.QualityCounts.Easy,
		},
		AvgResponseTimeMs: stats.AvgResponseTimeMs,
	})
}

func (h *StudyHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toFlashcardResponse(card *domain.Flashcard) flashcardResponse {
	return flashcardResponse{
		ID:             card.ID.String(),
		DeckID:         card.DeckID.String(),
		Front:          card.Front,
		Back:           card.Back,
		EaseFactor:     card.EaseFactor,
		IntervalDays:   card.IntervalDays,
		Repetitions:    card.Repetitions,
		NextReviewDate: card.NextReviewDate.Format("2006-01-02"),
		LastReviewedAt: card.LastReviewedAt,
	}
}

func toFlashcardResponses(cards []*domain.Flashcard) []flashcardResponse {
	out := make([]flashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toFlashcardResponse(c))
	}
	return out
}

func toSessionResponse(s *domain.StudySession) sessionResponse {
	return sessionResponse{
		ID:              s.ID.String(),
		DeckID:          s.DeckID.String(),
		CardsReviewed:   s.CardsReviewed,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		DurationSeconds: s.DurationSeconds,
	}
}
