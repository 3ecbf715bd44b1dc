package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendInvitationsRequest struct {
	// Invitees is a free-text comma-separated username list.
	Invitees string `json:"invitees"`
	Message  string `json:"message"`
}

type InvitationResponse struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
	Team      *TeamResponse `json:"team,omitempty"`
	Sender    *UserResponse `json:"sender,omitempty"`
	Recipient *UserResponse `json:"recipient,omitempty"`
}
