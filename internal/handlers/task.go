package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/internal/query"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/pkg/dto"
)

type TaskHandler struct {
	taskService TaskServiceInterface
	teamService TeamServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface, teamService TeamServiceInterface) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		teamService: teamService,
	}
}

func (h *TaskHandler) CreateTask(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	isMember, err := h.teamService.IsMember(ctx, req.TeamID, userID)
	if err != nil {
		c.InternalServerError("failed to check membership")
		return
	}
	if !isMember {
		c.Forbidden("you are not a member of this team")
		return
	}

	task, err := h.taskService.Create(ctx, taskInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(201, taskResponse(*task))
}

// GetMyTasks returns the tasks assigned to the authenticated user
// across all their teams, filtered and sorted by query parameters.
func (h *TaskHandler) GetMyTasks(c *drift.Context) {
	userID := middleware.GetUserID(c)

	tasks, err := h.taskService.GetUserTasks(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get tasks")
		return
	}

	tasks = query.Apply(tasks, filterFromQuery(c), c.QueryParam("sort"))

	resp := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskResponse(t))
	}

	_ = c.JSON(200, resp)
}

func (h *TaskHandler) GetTeamTasks(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	ctx := context.Background()

	isMember, err := h.teamService.IsMember(ctx, teamID, userID)
	if err != nil {
		c.InternalServerError("failed to check membership")
		return
	}
	if !isMember {
		c.NotFound("team not found")
		return
	}

	tasks, err := h.taskService.GetTeamTasks(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get tasks")
		return
	}

	tasks = query.Apply(tasks, filterFromQuery(c), c.QueryParam("sort"))

	resp := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskResponse(t))
	}

	_ = c.JSON(200, resp)
}

func (h *TaskHandler) GetTask(c *drift.Context) {
	userID := middleware.GetUserID(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	ctx := context.Background()

	task, err := h.taskService.GetByID(ctx, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	isMember, err := h.teamService.IsMember(ctx, task.TeamID, userID)
	if err != nil {
		c.InternalServerError("failed to check membership")
		return
	}
	if !isMember {
		c.NotFound("task not found")
		return
	}

	_ = c.JSON(200, taskResponse(*task))
}

func (h *TaskHandler) UpdateTask(c *drift.Context) {
	userID := middleware.GetUserID(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	var req dto.TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	existing, err := h.taskService.GetByID(ctx, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	isMember, err := h.teamService.IsMember(ctx, existing.TeamID, userID)
	if err != nil {
		c.InternalServerError("failed to check membership")
		return
	}
	if !isMember {
		c.NotFound("task not found")
		return
	}

	task, err := h.taskService.Update(ctx, taskID, taskInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, taskResponse(*task))
}

func (h *TaskHandler) DeleteTask(c *drift.Context) {
	userID := middleware.GetUserID(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	ctx := context.Background()

	existing, err := h.taskService.GetByID(ctx, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	isMember, err := h.teamService.IsMember(ctx, existing.TeamID, userID)
	if err != nil {
		c.InternalServerError("failed to check membership")
		return
	}
	if !isMember {
		c.NotFound("task not found")
		return
	}

	if err := h.taskService.Delete(ctx, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}

// GetTaskOptions returns the status values and sort keys the UI uses
// to populate its task filter controls.
func (h *TaskHandler) GetTaskOptions(c *drift.Context) {
	keys := query.SortKeys()
	entries := make([]dto.SortKeyEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, dto.SortKeyEntry{Key: k.Key, Label: k.Label})
	}

	_ = c.JSON(200, dto.TaskOptionsResponse{
		Statuses: query.Statuses(),
		SortKeys: entries,
	})
}

func taskInput(req dto.TaskRequest) services.TaskInput {
	return services.TaskInput{
		TeamID:      req.TeamID,
		AssignedTo:  req.AssignedTo,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	}
}

func filterFromQuery(c *drift.Context) query.Filter {
	f := query.Filter{
		TitleContains:    c.QueryParam("title"),
		Status:           c.QueryParam("status"),
		TeamNameContains: c.QueryParam("team"),
		AssigneeContains: c.QueryParam("assignee"),
	}
	if p := c.QueryParam("priority"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			f.Priority = n
		}
	}
	if d := c.QueryParam("due_from"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.DueFrom = t
		}
	}
	if d := c.QueryParam("due_to"); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.DueTo = t
		}
	}
	return f
}
