package models

import (
	"time"

	"github.com/google/uuid"
)

// Task status labels as shown to users.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusComplete   = "Complete"
)

const (
	PriorityMin = 1
	PriorityMax = 5
)

// TaskStatuses lists the valid status values in display order.
func TaskStatuses() []string {
	return []string{StatusNotStarted, StatusInProgress, StatusComplete}
}

// ValidTaskStatus reports whether s is one of the known status labels.
func ValidTaskStatus(s string) bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusComplete
}

type Task struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	AssignedTo  uuid.UUID `json:"assigned_to"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated by list queries for filtering and display.
	Team     *Team `json:"team,omitempty"`
	Assignee *User `json:"assignee,omitempty"`
}
