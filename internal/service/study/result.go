package study

import (
	"github.com/brainkit/brainkit-backend/internal/domain"
)

// StartSessionResult is returned by StartSession. Session is nil when the
// deck had no due cards; no session row is created in that case.
type StartSessionResult struct {
	Session  *domain.StudySession
	DueCards []*domain.Flashcard
	DueCount int
}

// CompleteSessionResult is returned by CompleteSession. CardsRemaining is the
// deck's live due count recomputed at completion time, not a value cached
// from session start.
type CompleteSessionResult struct {
	Session        *domain.StudySession
	CardsRemaining int
}
