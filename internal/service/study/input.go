package study

import (
	"github.com/google/uuid"

	"github.com/brainkit/brainkit-backend/internal/domain"
)

// GetDueCardsInput holds the parameters for fetching a deck's due cards.
type GetDueCardsInput struct {
	DeckID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *GetDueCardsInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StartSessionInput holds the parameters for starting a study session.
type StartSessionInput struct {
	DeckID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewCardInput holds the parameters for reviewing a flashcard.
type ReviewCardInput struct {
	FlashcardID    uuid.UUID
	Quality        domain.Quality
	SessionID      *uuid.UUID
	ResponseTimeMs *int
}

// Validate checks all fields and collects all errors. Quality is validated
// here, before any store access, so an invalid rating never mutates state.
func (i *ReviewCardInput) Validate() error {
	var errs []domain.FieldError

	if i.FlashcardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "flashcard_id", Message: "required"})
	}
	if !i.Quality.IsValid() {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be 1 (Hard), 3 (Good), or 5 (Easy)"})
	}
	if i.ResponseTimeMs != nil && *i.ResponseTimeMs < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "must be non-negative"})
	}
	// SessionID is optional: reviews may occur outside a session.

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CompleteSessionInput holds the parameters for completing a session.
type CompleteSessionInput struct {
	SessionID       uuid.UUID
	DurationSeconds *int
}

// Validate checks all fields and collects all errors.
func (i *CompleteSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.DurationSeconds != nil && *i.DurationSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "duration_seconds", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
