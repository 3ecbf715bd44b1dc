package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a pending offer to join a team. The row's existence is
// the pending state: accepting or declining deletes it, so there is no
// status column.
type Invitation struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`

	Team      *Team `json:"team,omitempty"`
	Sender    *User `json:"sender,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}
