package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/pkg/dto"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	teamService       TeamServiceInterface
}

func NewInvitationHandler(invitationService InvitationServiceInterface, teamService TeamServiceInterface) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		teamService:       teamService,
	}
}

// SendInvitations invites a batch of users to a team. The whole batch
// is validated up front and rejected as a unit when any entry fails.
func (h *InvitationHandler) SendInvitations(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.SendInvitationsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isOwner {
		c.Forbidden("only the team owner can send invitations")
		return
	}

	invitees, errs := h.invitationService.ResolveInvitees(ctx, req.Invitees, teamID, userID)
	if errs.Any() {
		_ = c.JSON(400, map[string]any{"errors": errs})
		return
	}
	if len(invitees) == 0 {
		c.BadRequest("no invitees given")
		return
	}

	sent := make([]dto.InvitationResponse, 0, len(invitees))
	for _, username := range invitees {
		inv, err := h.invitationService.Send(ctx, teamID, userID, username, req.Message)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		sent = append(sent, invitationResponse(*inv))
	}

	_ = c.JSON(201, sent)
}

func (h *InvitationHandler) GetMyInvitations(c *drift.Context) {
	userID := middleware.GetUserID(c)

	invitations, err := h.invitationService.GetUserPending(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	resp := make([]dto.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		resp = append(resp, invitationResponse(inv))
	}

	_ = c.JSON(200, resp)
}

func (h *InvitationHandler) GetTeamInvitations(c *drift.Context) {
	userID := middleware.GetUserID(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	ctx := context.Background()

	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isOwner {
		c.Forbidden("only the team owner can view pending invitations")
		return
	}

	invitations, err := h.invitationService.GetTeamPending(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	resp := make([]dto.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		resp = append(resp, invitationResponse(inv))
	}

	_ = c.JSON(200, resp)
}

func (h *InvitationHandler) AcceptInvitation(c *drift.Context) {
	userID := middleware.GetUserID(c)

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.invitationService.Accept(context.Background(), invitationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation accepted"})
}

func (h *InvitationHandler) DeclineInvitation(c *drift.Context) {
	userID := middleware.GetUserID(c)

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.invitationService.Decline(context.Background(), invitationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation declined"})
}
