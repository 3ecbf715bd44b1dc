package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Invitees is a free-text comma-separated username list, matching
	// the team form input.
	Invitees string `json:"invitees"`
	Message  string `json:"message"`
}

type UpdateTeamRequest struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Invitees        string      `json:"invitees"`
	Message         string      `json:"message"`
	RemoveMemberIDs []uuid.UUID `json:"remove_member_ids"`
}

type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Role        string    `json:"role,omitempty"`

	// Invitations that failed while creating or editing the team;
	// the team mutation itself still succeeded.
	InviteFailures []InviteFailure `json:"invite_failures,omitempty"`
}

type InviteFailure struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type TeamMemberResponse struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Role   string       `json:"role"`
	User   UserResponse `json:"user"`
}
