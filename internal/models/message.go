package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat bubble. OSCAR's own replies have IsBot set.
type Message struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Text      string    `db:"text"`
	IsBot     bool      `db:"is_bot"`
	CreatedAt time.Time `db:"created_at"`
}
