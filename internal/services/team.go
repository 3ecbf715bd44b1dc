package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/validation"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrNotOwner          = errors.New("only the team owner may do this")
	ErrCannotRemoveOwner = errors.New("the team owner cannot be removed")
	ErrMemberNotFound    = errors.New("member not found")
)

// InviteFailure records a single invitation that could not be sent
// while creating or editing a team. Team mutations succeed even when
// some invitations fail; the failures are surfaced to the caller.
type InviteFailure struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type TeamService struct {
	db          *database.DB
	invitations *InvitationService
}

func NewTeamService(db *database.DB, invitations *InvitationService) *TeamService {
	return &TeamService{db: db, invitations: invitations}
}

func validateTeamFields(name, description string) validation.Errors {
	errs := validation.New()
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Team name is required.")
	} else {
		if len(name) > 50 {
			errs.Add("name", "Team name must be at most 50 characters.")
		}
		if !containsLetter(name) {
			errs.Add("name", "Team name must contain at least one letter.")
		}
	}
	if len(description) > 500 {
		errs.Add("description", "Team description must be at most 500 characters.")
	}
	return errs
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Create makes a new team with the owner as its sole member, then sends
// one invitation per invitee username. Invitation failures do not fail
// team creation; they are returned alongside the team.
func (s *TeamService) Create(ctx context.Context, name, description string, ownerID uuid.UUID, inviteeUsernames []string, message string) (*models.Team, []InviteFailure, error) {
	if errs := validateTeamFields(name, description); errs.Any() {
		return nil, nil, errs
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, strings.TrimSpace(name), description, ownerID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, ownerID, models.RoleOwner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	failures := s.sendInvitations(ctx, team.ID, ownerID, inviteeUsernames, message)
	return &team, failures, nil
}

// Update edits name and description, sends invitations and removes
// members. Only the owner may call it. Invitation failures are
// collected; removal failures abort with the underlying error.
func (s *TeamService) Update(ctx context.Context, teamID, actorID uuid.UUID, name, description string, inviteeUsernames []string, message string, removeMemberIDs []uuid.UUID) (*models.Team, []InviteFailure, error) {
	isOwner, err := s.IsOwner(ctx, teamID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if !isOwner {
		return nil, nil, ErrNotOwner
	}

	if errs := validateTeamFields(name, description); errs.Any() {
		return nil, nil, errs
	}

	var team models.Team
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, strings.TrimSpace(name), description, teamID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, nil, ErrTeamNotFound
	}

	failures := s.sendInvitations(ctx, teamID, actorID, inviteeUsernames, message)

	for _, memberID := range removeMemberIDs {
		if err := s.RemoveMember(ctx, teamID, memberID); err != nil {
			return nil, failures, err
		}
	}

	return &team, failures, nil
}

func (s *TeamService) sendInvitations(ctx context.Context, teamID, senderID uuid.UUID, usernames []string, message string) []InviteFailure {
	var failures []InviteFailure
	for _, username := range usernames {
		if _, err := s.invitations.Send(ctx, teamID, senderID, username, message); err != nil {
			failures = append(failures, InviteFailure{Username: username, Reason: err.Error()})
		}
	}
	return failures
}

// Delete removes the team; tasks, invitations and memberships go with
// it via the foreign key cascades.
func (s *TeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	isOwner, err := s.IsOwner(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrNotOwner
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	return err
}

// RemoveMember removes a non-owner member and, in the same transaction,
// every task in this team assigned to them.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var role string
	err = tx.QueryRow(ctx, `
		SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID).Scan(&role)
	if err != nil {
		return ErrMemberNotFound
	}

	if role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM tasks WHERE team_id = $1 AND assigned_to = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete member tasks: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return tx.Commit(ctx)
}

// Leave is RemoveMember invoked by the member themself. The owner gets
// ErrCannotRemoveOwner, distinct from not being a member at all.
func (s *TeamService) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	return s.RemoveMember(ctx, teamID, userID)
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM teams WHERE id = $1
	`, teamID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	return &team, nil
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at, tm.role
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var teams []models.Team
	var roles []string
	for rows.Next() {
		var team models.Team
		var role string
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt, &role); err != nil {
			return nil, nil, err
		}
		teams = append(teams, team)
		roles = append(roles, role)
	}
	return teams, roles, nil
}

func (s *TeamService) IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		return false, ErrTeamNotFound
	}
	return ownerID == userID, nil
}

func (s *TeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	return exists, err
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
		       u.id, u.username, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
			&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, nil
}
