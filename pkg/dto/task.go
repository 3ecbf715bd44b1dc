package dto

import (
	"time"

	"github.com/google/uuid"
)

type TaskRequest struct {
	TeamID      uuid.UUID `json:"team_id"`
	AssignedTo  uuid.UUID `json:"assigned_to"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	// Priority is a pointer so an omitted field (defaults to 1) can be
	// told apart from an explicit 0, which is out of range.
	Priority *int `json:"priority"`
}

type TaskResponse struct {
	ID          uuid.UUID     `json:"id"`
	TeamID      uuid.UUID     `json:"team_id"`
	AssignedTo  uuid.UUID     `json:"assigned_to"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"due_date"`
	Status      string        `json:"status"`
	Priority    int           `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Team        *TeamResponse `json:"team,omitempty"`
	Assignee    *UserResponse `json:"assignee,omitempty"`
}

type TaskOptionsResponse struct {
	Statuses []string       `json:"statuses"`
	SortKeys []SortKeyEntry `json:"sort_keys"`
}

type SortKeyEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
