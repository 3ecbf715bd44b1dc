package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/pkg/dto"
	"github.com/mkovac/taskhub-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func setupTaskTest(t *testing.T) (*testutil.MockTaskService, *testutil.MockTeamService, *TaskHandler, *services.JWTService) {
	t.Helper()
	mockTaskService := new(testutil.MockTaskService)
	mockTeamService := new(testutil.MockTeamService)
	handler := NewTaskHandler(mockTaskService, mockTeamService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockTaskService, mockTeamService, handler, jwtSvc
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	mockTaskService, mockTeamService, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	assigneeID := uuid.New()
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	task := &models.Task{
		ID:         uuid.New(),
		TeamID:     teamID,
		AssignedTo: assigneeID,
		Title:      "Write release notes",
		DueDate:    due,
		Status:     models.StatusNotStarted,
		Priority:   2,
	}

	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(true, nil)
	mockTaskService.On("Create", mock.Anything, services.TaskInput{
		TeamID:     teamID,
		AssignedTo: assigneeID,
		Title:      "Write release notes",
		DueDate:    due,
		Status:     models.StatusNotStarted,
		Priority:   intPtr(2),
	}).Return(task, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/tasks", handler.CreateTask)

	body := dto.TaskRequest{
		TeamID:     teamID,
		AssignedTo: assigneeID,
		Title:      "Write release notes",
		DueDate:    due,
		Status:     models.StatusNotStarted,
		Priority:   intPtr(2),
	}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, task.ID, response.ID)
	assert.Equal(t, "Write release notes", response.Title)

	mockTaskService.AssertExpectations(t)
	mockTeamService.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_NotMember(t *testing.T) {
	_, mockTeamService, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/tasks", handler.CreateTask)

	body := dto.TaskRequest{TeamID: teamID, AssignedTo: uuid.New(), Title: "Sneaky task"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	mockTeamService.AssertExpectations(t)
}

func TestTaskHandler_GetMyTasks_FilterAndSort(t *testing.T) {
	mockTaskService, _, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	now := time.Now()
	tasks := []models.Task{
		{ID: uuid.New(), Title: "Low priority", Priority: 1, Status: models.StatusNotStarted, DueDate: now.Add(24 * time.Hour)},
		{ID: uuid.New(), Title: "High priority", Priority: 5, Status: models.StatusNotStarted, DueDate: now.Add(48 * time.Hour)},
		{ID: uuid.New(), Title: "Done already", Priority: 3, Status: models.StatusComplete, DueDate: now.Add(12 * time.Hour)},
	}

	mockTaskService.On("GetUserTasks", mock.Anything, userID).Return(tasks, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/tasks", handler.GetMyTasks)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodGet, "/tasks?status=Not+Started&sort=priorityDown", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "High priority", response[0].Title)
	assert.Equal(t, "Low priority", response[1].Title)

	mockTaskService.AssertExpectations(t)
}

func TestTaskHandler_GetTeamTasks_NotMember(t *testing.T) {
	_, mockTeamService, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/tasks", handler.GetTeamTasks)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockTeamService.AssertExpectations(t)
}

func TestTaskHandler_GetTask_OutsideTeam(t *testing.T) {
	mockTaskService, mockTeamService, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	task := &models.Task{ID: uuid.New(), TeamID: teamID, Title: "Hidden task"}

	mockTaskService.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/tasks/:id", handler.GetTask)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockTaskService.AssertExpectations(t)
	mockTeamService.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	mockTaskService, mockTeamService, handler, jwtSvc := setupTaskTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	task := &models.Task{ID: uuid.New(), TeamID: teamID}

	mockTaskService.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(true, nil)
	mockTaskService.On("Delete", mock.Anything, task.ID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/tasks/:id", handler.DeleteTask)

	token := generateTestToken(t, jwtSvc, userID, "@ana42")
	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTaskService.AssertExpectations(t)
	mockTeamService.AssertExpectations(t)
}

func TestTaskHandler_GetTaskOptions(t *testing.T) {
	_, _, handler, jwtSvc := setupTaskTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/meta/task-options", handler.GetTaskOptions)

	token := generateTestToken(t, jwtSvc, uuid.New(), "@ana42")
	req := httptest.NewRequest(http.MethodGet, "/meta/task-options", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TaskOptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"Not Started", "In Progress", "Complete"}, response.Statuses)
	require.Len(t, response.SortKeys, 8)
	assert.Equal(t, "dateUp", response.SortKeys[0].Key)
}
