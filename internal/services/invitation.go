package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/validation"
)

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrNotRecipient        = errors.New("only the recipient can respond to this invitation")
	ErrSelfInvite          = errors.New("sender and recipient cannot be the same user")
	ErrAlreadyMember       = errors.New("the recipient is already a member of this team")
	ErrDuplicateInvitation = errors.New("an invitation for this user is already pending")
)

type InvitationService struct {
	db      *database.DB
	email   *EmailService
	baseURL string
}

func NewInvitationService(db *database.DB, email *EmailService, baseURL string) *InvitationService {
	return &InvitationService{db: db, email: email, baseURL: baseURL}
}

// Send creates a pending invitation. The sender must be the team owner,
// must not invite themself, and the recipient must exist, not already
// be a member, and not already have a pending invitation for the team.
func (s *InvitationService) Send(ctx context.Context, teamID, senderID uuid.UUID, recipientUsername, message string) (*models.Invitation, error) {
	if len(message) > 500 {
		errs := validation.New()
		errs.Add("message", "Invitation message must be at most 500 characters.")
		return nil, errs
	}

	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	if ownerID != senderID {
		return nil, ErrNotOwner
	}

	var recipientID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, recipientUsername).Scan(&recipientID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if recipientID == senderID {
		return nil, ErrSelfInvite
	}

	var isMember bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, recipientID).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	var pending bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM invitations WHERE team_id = $1 AND recipient_id = $2)
	`, teamID, recipientID).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return nil, ErrDuplicateInvitation
	}

	var invitation models.Invitation
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, sender_id, recipient_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, sender_id, recipient_id, message, created_at
	`, teamID, senderID, recipientID, message).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.SenderID,
		&invitation.RecipientID, &invitation.Message, &invitation.CreatedAt,
	)
	if err != nil {
		// The unique constraint on (recipient_id, team_id) backs the
		// duplicate check under concurrent sends.
		return nil, ErrDuplicateInvitation
	}

	s.notifyRecipient(ctx, &invitation)

	return &invitation, nil
}

// notifyRecipient emails the recipient a link to the invitation page.
// Delivery problems are logged, never surfaced; the invitation exists
// either way.
func (s *InvitationService) notifyRecipient(ctx context.Context, invitation *models.Invitation) {
	if s.email == nil || !s.email.IsConfigured() {
		return
	}

	var recipientEmail, teamName, senderFirst, senderLast string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT r.email, t.name, se.first_name, se.last_name
		FROM invitations i
		JOIN users r ON i.recipient_id = r.id
		JOIN teams t ON i.team_id = t.id
		JOIN users se ON i.sender_id = se.id
		WHERE i.id = $1
	`, invitation.ID).Scan(&recipientEmail, &teamName, &senderFirst, &senderLast)
	if err != nil {
		log.Printf("failed to load invitation email details: %v", err)
		return
	}

	invitationURL := fmt.Sprintf("%s/invitations/%s", s.baseURL, invitation.ID)
	senderName := strings.TrimSpace(senderFirst + " " + senderLast)
	if err := s.email.SendTeamInvitation(recipientEmail, teamName, senderName, invitation.Message, invitationURL); err != nil {
		log.Printf("failed to send invitation email: %v", err)
	}
}

// Accept adds the recipient to the team and deletes the invitation in
// one transaction; either both happen or neither.
func (s *InvitationService) Accept(ctx context.Context, invitationID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var invitation models.Invitation
	err = tx.QueryRow(ctx, `
		SELECT id, team_id, recipient_id FROM invitations WHERE id = $1
	`, invitationID).Scan(&invitation.ID, &invitation.TeamID, &invitation.RecipientID)
	if err != nil {
		return ErrInvitationNotFound
	}

	if invitation.RecipientID != actorID {
		return ErrNotRecipient
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, invitation.TeamID, actorID, models.RoleMember)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, invitationID)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return tx.Commit(ctx)
}

// Decline deletes the invitation without touching the member set.
func (s *InvitationService) Decline(ctx context.Context, invitationID, actorID uuid.UUID) error {
	var recipientID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT recipient_id FROM invitations WHERE id = $1
	`, invitationID).Scan(&recipientID)
	if err != nil {
		return ErrInvitationNotFound
	}

	if recipientID != actorID {
		return ErrNotRecipient
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, invitationID)
	return err
}

// ResolveInvitees parses a comma-separated username list and validates
// the whole batch against the team. Any offending entry rejects the
// batch; every problem is reported keyed to the username so the form
// can show it next to the input.
func (s *InvitationService) ResolveInvitees(ctx context.Context, raw string, teamID, senderID uuid.UUID) ([]string, validation.Errors) {
	errs := validation.New()
	seen := make(map[string]bool)
	var usernames []string

	for _, entry := range strings.Split(raw, ",") {
		username := strings.TrimSpace(entry)
		if username == "" {
			continue
		}
		if seen[username] {
			errs.Addf(username, "You have a duplicate entry for %s in the team.", username)
			continue
		}
		seen[username] = true

		var userID uuid.UUID
		err := s.db.Pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&userID)
		if err != nil {
			errs.Addf(username, "Member %s does not exist.", username)
			continue
		}

		if userID == senderID {
			errs.Add(username, "You cannot add yourself to the team.")
			continue
		}

		var isMember bool
		if err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
		`, teamID, userID).Scan(&isMember); err == nil && isMember {
			errs.Addf(username, "%s is already a member of the team.", username)
			continue
		}

		var pending bool
		if err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM invitations WHERE team_id = $1 AND recipient_id = $2)
		`, teamID, userID).Scan(&pending); err == nil && pending {
			errs.Addf(username, "Invitation already pending for %s.", username)
			continue
		}

		usernames = append(usernames, username)
	}

	if errs.Any() {
		return nil, errs
	}
	return usernames, nil
}

// GetByID loads an invitation with its team and sender populated; the
// public invitation page renders both.
func (s *InvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	var team models.Team
	var sender models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT i.id, i.team_id, i.sender_id, i.recipient_id, i.message, i.created_at,
		       t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.username, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
		FROM invitations i
		JOIN teams t ON i.team_id = t.id
		JOIN users u ON i.sender_id = u.id
		WHERE i.id = $1
	`, invitationID).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.SenderID,
		&invitation.RecipientID, &invitation.Message, &invitation.CreatedAt,
		&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
		&sender.ID, &sender.Username, &sender.FirstName, &sender.LastName, &sender.Email, &sender.CreatedAt, &sender.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInvitationNotFound
	}
	invitation.Team = &team
	invitation.Sender = &sender
	return &invitation, nil
}

// GetUserPending lists invitations awaiting a response from the user,
// with team and sender populated for display.
func (s *InvitationService) GetUserPending(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.team_id, i.sender_id, i.recipient_id, i.message, i.created_at,
		       t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.username, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
		FROM invitations i
		JOIN teams t ON i.team_id = t.id
		JOIN users u ON i.sender_id = u.id
		WHERE i.recipient_id = $1
		ORDER BY i.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var team models.Team
		var sender models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.SenderID,
			&invitation.RecipientID, &invitation.Message, &invitation.CreatedAt,
			&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
			&sender.ID, &sender.Username, &sender.FirstName, &sender.LastName, &sender.Email, &sender.CreatedAt, &sender.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Team = &team
		invitation.Sender = &sender
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}

// GetTeamPending lists outstanding invitations for a team, with the
// recipient populated.
func (s *InvitationService) GetTeamPending(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.team_id, i.sender_id, i.recipient_id, i.message, i.created_at,
		       u.id, u.username, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
		FROM invitations i
		JOIN users u ON i.recipient_id = u.id
		WHERE i.team_id = $1
		ORDER BY i.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var recipient models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.SenderID,
			&invitation.RecipientID, &invitation.Message, &invitation.CreatedAt,
			&recipient.ID, &recipient.Username, &recipient.FirstName, &recipient.LastName, &recipient.Email, &recipient.CreatedAt, &recipient.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Recipient = &recipient
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}
