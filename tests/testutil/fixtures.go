package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// DefaultPassword is the plaintext password every fixture user gets
// unless overridden.
const DefaultPassword = "Sup3rSecret"

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Username:  fmt.Sprintf("@user%d", f.counter),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", f.counter),
		Email:     fmt.Sprintf("user%d@example.com", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, first_name, last_name, email, password_hash, created_at, updated_at
	`, user.Username, user.FirstName, user.LastName, user.Email, string(hash)).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithUsername sets the user's username
func WithUsername(username string) UserOption {
	return func(u *models.User) {
		u.Username = username
	}
}

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's first and last name
func WithName(first, last string) UserOption {
	return func(u *models.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// CreateTeam creates a test team with the given owner as its first member
func (f *Fixtures) CreateTeam(t *testing.T, owner *models.User, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:    fmt.Sprintf("Test Team %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, team.Name, team.Description, team.OwnerID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(t *models.Team) {
		t.Name = name
	}
}

// WithDescription sets the team's description
func WithDescription(description string) TeamOption {
	return func(t *models.Team) {
		t.Description = description
	}
}

// AddTeamMember adds a member to a team
func (f *Fixtures) AddTeamMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, team.ID, user.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// CreateInvitation creates a pending invitation
func (f *Fixtures) CreateInvitation(t *testing.T, team *models.Team, sender, recipient *models.User, message string) *models.Invitation {
	t.Helper()
	ctx := context.Background()

	invitation := &models.Invitation{}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, sender_id, recipient_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, sender_id, recipient_id, message, created_at
	`, team.ID, sender.ID, recipient.ID, message).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.SenderID,
		&invitation.RecipientID, &invitation.Message, &invitation.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	return invitation
}

// CreateTask creates a test task assigned to the given user
func (f *Fixtures) CreateTask(t *testing.T, team *models.Team, assignee *models.User, opts ...TaskOption) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		TeamID:     team.ID,
		AssignedTo: assignee.ID,
		Title:      fmt.Sprintf("Test Task %d", f.counter),
		DueDate:    time.Now().Add(72 * time.Hour),
		Status:     models.StatusNotStarted,
		Priority:   1,
	}

	for _, opt := range opts {
		opt(task)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (team_id, assigned_to, title, description, due_date, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, team_id, assigned_to, title, description, due_date, status, priority, created_at, updated_at
	`, task.TeamID, task.AssignedTo, task.Title, task.Description, task.DueDate, task.Status, task.Priority).Scan(
		&task.ID, &task.TeamID, &task.AssignedTo, &task.Title, &task.Description,
		&task.DueDate, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// TaskOption configures a test task
type TaskOption func(*models.Task)

// WithTitle sets the task title
func WithTitle(title string) TaskOption {
	return func(t *models.Task) {
		t.Title = title
	}
}

// WithStatus sets the task status
func WithStatus(status string) TaskOption {
	return func(t *models.Task) {
		t.Status = status
	}
}

// WithPriority sets the task priority
func WithPriority(priority int) TaskOption {
	return func(t *models.Task) {
		t.Priority = priority
	}
}

// WithDueDate sets the task due date
func WithDueDate(due time.Time) TaskOption {
	return func(t *models.Task) {
		t.DueDate = due
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
