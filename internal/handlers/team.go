package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/pkg/dto"
)

type TeamHandler struct {
	teamService       TeamServiceInterface
	invitationService InvitationServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface, invitationService InvitationServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService:       teamService,
		invitationService: invitationService,
	}
}

func (h *TeamHandler) CreateTeam(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	// The whole invitee list is rejected before the team is touched if
	// any entry fails validation.
	invitees, errs := h.invitationService.ResolveInvitees(ctx, req.Invitees, uuid.Nil, userID)
	if errs.Any() {
		_ = c.JSON(400, map[string]any{"errors": errs})
		return
	}

	team, failures, err := h.teamService.Create(ctx, req.Name, req.Description, userID, invitees, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(201, teamResponse(team, models.RoleOwner, failures))
}

func (h *TeamHandler) GetTeams(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teams, roles, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	resp := make([]dto.TeamResponse, 0, len(teams))
	for i, team := range teams {
		resp = append(resp, *teamResponse(&team, roles[i], nil))
	}

	_ = c.JSON(200, resp)
}

func (h *TeamHandler) GetTeam(c *drift.Context) {
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

	team, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	role := models.RoleMember
	if team.OwnerID == userID {
		role = models.RoleOwner
	}

	_ = c.JSON(200, teamResponse(team, role, nil))
}

func (h *TeamHandler) UpdateTeam(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	invitees, errs := h.invitationService.ResolveInvitees(ctx, req.Invitees, teamID, userID)
	if errs.Any() {
		_ = c.JSON(400, map[string]any{"errors": errs})
		return
	}

	team, failures, err := h.teamService.Update(ctx, teamID, userID, req.Name, req.Description, invitees, req.Message, req.RemoveMemberIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, teamResponse(team, models.RoleOwner, failures))
}

func (h *TeamHandler) DeleteTeam(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
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

	members, err := h.teamService.GetMembers(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	resp := make([]dto.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResponse(m))
	}

	_ = c.JSON(200, resp)
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	actorID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.teamService.IsOwner(ctx, teamID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isOwner {
		c.Forbidden("only the team owner can remove members")
		return
	}

	if err := h.teamService.RemoveMember(ctx, teamID, memberID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func (h *TeamHandler) LeaveTeam(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Leave(context.Background(), teamID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left team"})
}
