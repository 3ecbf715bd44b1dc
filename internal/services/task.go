package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/validation"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

type TaskInput struct {
	TeamID      uuid.UUID
	AssignedTo  uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
	Status      string
	// Priority nil means "not given" and falls back to the minimum;
	// an explicit out-of-range value (including 0) fails validation.
	Priority *int
}

func (s *TaskService) validateTask(ctx context.Context, input *TaskInput) validation.Errors {
	errs := validation.New()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs.Add("title", "Task title is required.")
	} else {
		if len(title) > 50 {
			errs.Add("title", "Task title must be at most 50 characters.")
		}
		if !containsLetter(title) {
			errs.Add("title", "Title must contain at least one letter.")
		}
	}

	if len(input.Description) > 500 {
		errs.Add("description", "Task description must be at most 500 characters.")
	}

	if !input.DueDate.After(time.Now()) {
		errs.Add("due_date", "Due date must be in the future.")
	}

	if input.Status == "" {
		input.Status = models.StatusNotStarted
	} else if !models.ValidTaskStatus(input.Status) {
		errs.Add("status", "Select a valid completion status.")
	}

	if input.Priority == nil {
		priority := models.PriorityMin
		input.Priority = &priority
	} else if *input.Priority < models.PriorityMin || *input.Priority > models.PriorityMax {
		errs.Add("priority", "Priority must be between 1 and 5.")
	}

	var isMember bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, input.TeamID, input.AssignedTo).Scan(&isMember)
	if err != nil || !isMember {
		errs.Add("assigned_to", "The assigned user is not part of this team.")
	}

	return errs
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*models.Task, error) {
	if errs := s.validateTask(ctx, &input); errs.Any() {
		return nil, errs
	}

	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (team_id, assigned_to, title, description, due_date, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, team_id, assigned_to, title, description, due_date, status, priority, created_at, updated_at
	`, input.TeamID, input.AssignedTo, strings.TrimSpace(input.Title), input.Description,
		input.DueDate, input.Status, *input.Priority).Scan(
		&task.ID, &task.TeamID, &task.AssignedTo, &task.Title, &task.Description,
		&task.DueDate, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update re-validates every field, including assignee membership
// against the (possibly changed) team, and bumps updated_at. The
// creation timestamp never changes.
func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, input TaskInput) (*models.Task, error) {
	if errs := s.validateTask(ctx, &input); errs.Any() {
		return nil, errs
	}

	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE tasks
		SET team_id = $1, assigned_to = $2, title = $3, description = $4,
		    due_date = $5, status = $6, priority = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING id, team_id, assigned_to, title, description, due_date, status, priority, created_at, updated_at
	`, input.TeamID, input.AssignedTo, strings.TrimSpace(input.Title), input.Description,
		input.DueDate, input.Status, *input.Priority, taskID).Scan(
		&task.ID, &task.TeamID, &task.AssignedTo, &task.Title, &task.Description,
		&task.DueDate, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

// Delete removes the task unconditionally; whether the caller is
// allowed to is checked at the handler boundary.
func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, assigned_to, title, description, due_date, status, priority, created_at, updated_at
		FROM tasks WHERE id = $1
	`, taskID).Scan(
		&task.ID, &task.TeamID, &task.AssignedTo, &task.Title, &task.Description,
		&task.DueDate, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

const taskListQuery = `
	SELECT ts.id, ts.team_id, ts.assigned_to, ts.title, ts.description,
	       ts.due_date, ts.status, ts.priority, ts.created_at, ts.updated_at,
	       t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at,
	       u.id, u.username, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
	FROM tasks ts
	JOIN teams t ON ts.team_id = t.id
	JOIN users u ON ts.assigned_to = u.id`

// GetTeamTasks lists a team's tasks with team and assignee populated
// for the query facade.
func (s *TaskService) GetTeamTasks(ctx context.Context, teamID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, taskListQuery+`
	WHERE ts.team_id = $1
	ORDER BY ts.due_date`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskList(rows)
}

// GetUserTasks lists the tasks assigned to a user across all of their
// teams, for the dashboard.
func (s *TaskService) GetUserTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, taskListQuery+`
	WHERE ts.assigned_to = $1
	ORDER BY ts.due_date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskList(rows)
}

func scanTaskList(rows pgx.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var team models.Team
		var assignee models.User
		if err := rows.Scan(
			&task.ID, &task.TeamID, &task.AssignedTo, &task.Title, &task.Description,
			&task.DueDate, &task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
			&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
			&assignee.ID, &assignee.Username, &assignee.FirstName, &assignee.LastName, &assignee.Email, &assignee.CreatedAt, &assignee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		task.Team = &team
		task.Assignee = &assignee
		tasks = append(tasks, task)
	}
	return tasks, nil
}
