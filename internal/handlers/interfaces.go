package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/internal/validation"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Create(ctx context.Context, input services.CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, email string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name, description string, ownerID uuid.UUID, inviteeUsernames []string, message string) (*models.Team, []services.InviteFailure, error)
	Update(ctx context.Context, teamID, actorID uuid.UUID, name, description string, inviteeUsernames []string, message string, removeMemberIDs []uuid.UUID) (*models.Team, []services.InviteFailure, error)
	Delete(ctx context.Context, teamID, actorID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	Leave(ctx context.Context, teamID, userID uuid.UUID) error
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error)
	IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Send(ctx context.Context, teamID, senderID uuid.UUID, recipientUsername, message string) (*models.Invitation, error)
	Accept(ctx context.Context, invitationID, actorID uuid.UUID) error
	Decline(ctx context.Context, invitationID, actorID uuid.UUID) error
	ResolveInvitees(ctx context.Context, raw string, teamID, senderID uuid.UUID) ([]string, validation.Errors)
	GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error)
	GetUserPending(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error)
	GetTeamPending(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error)
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, input services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, input services.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	GetTeamTasks(ctx context.Context, teamID uuid.UUID) ([]models.Task, error)
	GetUserTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, username string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendTeamInvitation(to, teamName, senderName, message, invitationURL string) error
}
