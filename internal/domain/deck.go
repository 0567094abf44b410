package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deck is a user-owned collection of flashcards. Deck content management
// (create/rename/delete) lives outside the study core; the scheduler only
// needs the ownership relation and the last_studied_at bookkeeping field.
type Deck struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Description   string
	LastStudiedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
