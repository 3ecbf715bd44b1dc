package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/validation"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaskService(t *testing.T) (*TaskService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTaskService(db), mock
}

func intPtr(n int) *int {
	return &n
}

func validTaskInput(teamID, assigneeID uuid.UUID) TaskInput {
	return TaskInput{
		TeamID:     teamID,
		AssignedTo: assigneeID,
		Title:      "Write release notes",
		DueDate:    time.Now().Add(48 * time.Hour),
		Status:     models.StatusNotStarted,
		Priority:   intPtr(2),
	}
}

func expectAssigneeMembership(mock pgxmock.PgxPoolIface, teamID, userID uuid.UUID, isMember bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_members`).
		WithArgs(teamID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(isMember))
}

func taskRow(taskID uuid.UUID, input TaskInput) *pgxmock.Rows {
	now := time.Now()
	priority := models.PriorityMin
	if input.Priority != nil {
		priority = *input.Priority
	}
	return pgxmock.NewRows([]string{"id", "team_id", "assigned_to", "title", "description", "due_date", "status", "priority", "created_at", "updated_at"}).
		AddRow(taskID, input.TeamID, input.AssignedTo, input.Title, input.Description, input.DueDate, input.Status, priority, now, now)
}

func TestTaskService_Create(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	taskID := uuid.New()
	input := validTaskInput(teamID, assigneeID)

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(teamID, assigneeID, input.Title, "", input.DueDate, input.Status, 2).
		WillReturnRows(taskRow(taskID, input))

	task, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, "Write release notes", task.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_Defaults(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)
	input.Status = ""
	input.Priority = nil

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	// Omitted status and priority fall back to "Not Started" and 1.
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(teamID, assigneeID, input.Title, "", input.DueDate, models.StatusNotStarted, models.PriorityMin).
		WillReturnRows(taskRow(uuid.New(), input))

	_, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_PastDueDate(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)
	input.DueDate = time.Now().Add(-time.Hour)

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	_, err := svc.Create(context.Background(), input)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("due_date"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_InvalidTitle(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()

	for _, title := range []string{"", "   ", "12345"} {
		input := validTaskInput(teamID, assigneeID)
		input.Title = title

		expectAssigneeMembership(mock, teamID, assigneeID, true)

		_, err := svc.Create(context.Background(), input)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs, "title %q should be rejected", title)
		assert.True(t, errs.Has("title"))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_InvalidStatus(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)
	input.Status = "Done"

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	_, err := svc.Create(context.Background(), input)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("status"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_PriorityOutOfRange(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()

	// An explicit 0 is out of range, not an omission.
	for _, priority := range []int{-1, 0, 6, 100} {
		input := validTaskInput(teamID, assigneeID)
		input.Priority = intPtr(priority)

		expectAssigneeMembership(mock, teamID, assigneeID, true)

		_, err := svc.Create(context.Background(), input)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs, "priority %d should be rejected", priority)
		assert.True(t, errs.Has("priority"))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_AssigneeNotMember(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)

	expectAssigneeMembership(mock, teamID, assigneeID, false)

	_, err := svc.Create(context.Background(), input)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("assigned_to"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Update(t *testing.T) {
	svc, mock := setupTaskService(t)
	taskID := uuid.New()
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)
	input.Status = models.StatusComplete

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs(teamID, assigneeID, input.Title, "", input.DueDate, models.StatusComplete, 2, taskID).
		WillReturnRows(taskRow(taskID, input))

	task, err := svc.Update(context.Background(), taskID, input)

	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	taskID := uuid.New()
	teamID := uuid.New()
	assigneeID := uuid.New()
	input := validTaskInput(teamID, assigneeID)

	expectAssigneeMembership(mock, teamID, assigneeID, true)

	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs(teamID, assigneeID, input.Title, "", input.DueDate, input.Status, 2, taskID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), taskID, input)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete(t *testing.T) {
	svc, mock := setupTaskService(t)
	taskID := uuid.New()

	mock.ExpectExec(`DELETE FROM tasks WHERE id`).
		WithArgs(taskID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(context.Background(), taskID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	taskID := uuid.New()

	mock.ExpectExec(`DELETE FROM tasks WHERE id`).
		WithArgs(taskID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), taskID)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_GetTeamTasks(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	assigneeID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "team_id", "assigned_to", "title", "description", "due_date", "status", "priority", "created_at", "updated_at",
		"t_id", "name", "t_description", "owner_id", "t_created_at", "t_updated_at",
		"u_id", "username", "first_name", "last_name", "email", "u_created_at", "u_updated_at",
	}).AddRow(
		uuid.New(), teamID, assigneeID, "Write release notes", "", now.Add(24*time.Hour), models.StatusNotStarted, 1, now, now,
		teamID, "Backend Crew", "", assigneeID, now, now,
		assigneeID, "@ana42", "Ana", "Petrov", "ana@example.com", now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM tasks ts JOIN teams t`).
		WithArgs(teamID).
		WillReturnRows(rows)

	tasks, err := svc.GetTeamTasks(context.Background(), teamID)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Team)
	assert.Equal(t, "Backend Crew", tasks[0].Team.Name)
	require.NotNil(t, tasks[0].Assignee)
	assert.Equal(t, "@ana42", tasks[0].Assignee.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
