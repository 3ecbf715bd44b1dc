// Package query filters and sorts task collections for the
// presentation layer. It never mutates its input and never touches the
// database.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/mkovac/taskhub-api/internal/models"
)

// Sort keys accepted by Apply.
const (
	SortDueDateAsc   = "dateUp"
	SortDueDateDesc  = "dateDown"
	SortCreatedAsc   = "creationUp"
	SortCreatedDesc  = "creationDown"
	SortPriorityAsc  = "priorityUp"
	SortPriorityDesc = "priorityDown"
	SortTitle        = "alphabetical"
	SortStatus       = "status"
)

// SortKeys lists the valid sort keys, with display labels, in the
// order the UI offers them.
func SortKeys() []SortKey {
	return []SortKey{
		{SortDueDateAsc, "Due Date Increasing"},
		{SortDueDateDesc, "Due Date Decreasing"},
		{SortCreatedAsc, "Creation Date Increasing"},
		{SortCreatedDesc, "Creation Date Decreasing"},
		{SortPriorityAsc, "Priority Increasing"},
		{SortPriorityDesc, "Priority Decreasing"},
		{SortTitle, "Task Title"},
		{SortStatus, "Status"},
	}
}

type SortKey struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Statuses lists the valid task status values for UI population.
func Statuses() []string {
	return models.TaskStatuses()
}

// Filter is a conjunction of optional criteria. Zero values mean
// "no constraint"; substring matches are case-insensitive and the
// due-date range is inclusive on both bounds.
type Filter struct {
	TitleContains    string
	Status           string
	Priority         int
	DueFrom          time.Time
	DueTo            time.Time
	TeamNameContains string
	AssigneeContains string
}

func (f Filter) matches(t models.Task) bool {
	if f.TitleContains != "" && !containsFold(t.Title, f.TitleContains) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != 0 && t.Priority != f.Priority {
		return false
	}
	if !f.DueFrom.IsZero() && t.DueDate.Before(f.DueFrom) {
		return false
	}
	if !f.DueTo.IsZero() && t.DueDate.After(f.DueTo) {
		return false
	}
	if f.TeamNameContains != "" {
		if t.Team == nil || !containsFold(t.Team.Name, f.TeamNameContains) {
			return false
		}
	}
	if f.AssigneeContains != "" {
		if t.Assignee == nil || !containsFold(t.Assignee.Username, f.AssigneeContains) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Apply returns the tasks matching the filter, sorted by the given key.
// An empty or unknown sort key keeps the input order.
func Apply(tasks []models.Task, f Filter, sortKey string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	Sort(out, sortKey)
	return out
}

// Sort orders tasks in place by the given key, stably.
func Sort(tasks []models.Task, key string) {
	var less func(a, b models.Task) bool

	switch key {
	case SortDueDateAsc:
		less = func(a, b models.Task) bool { return a.DueDate.Before(b.DueDate) }
	case SortDueDateDesc:
		less = func(a, b models.Task) bool { return b.DueDate.Before(a.DueDate) }
	case SortCreatedAsc:
		less = func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCreatedDesc:
		less = func(a, b models.Task) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case SortPriorityAsc:
		less = func(a, b models.Task) bool { return a.Priority < b.Priority }
	case SortPriorityDesc:
		less = func(a, b models.Task) bool { return a.Priority > b.Priority }
	case SortTitle:
		less = func(a, b models.Task) bool { return a.Title < b.Title }
	case SortStatus:
		less = func(a, b models.Task) bool { return a.Status < b.Status }
	default:
		return
	}

	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}
