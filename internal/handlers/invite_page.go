package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/services"
)

// InvitePageHandler serves the public HTML pages linked from
// invitation emails. The recipient is resolved from the invitation
// itself, so no login is required to respond.
type InvitePageHandler struct {
	invitationService InvitationServiceInterface
}

func NewInvitePageHandler(invitationService InvitationServiceInterface) *InvitePageHandler {
	return &InvitePageHandler{invitationService: invitationService}
}

func (h *InvitePageHandler) ViewInvitation(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		h.renderError(c, "Invalid invitation link")
		return
	}

	inv, err := h.invitationService.GetByID(context.Background(), invitationID)
	if err != nil {
		h.renderError(c, "Invitation not found or already processed")
		return
	}

	senderName := "Someone"
	if inv.Sender != nil {
		senderName = inv.Sender.FullName()
	}

	teamName := "the team"
	if inv.Team != nil {
		teamName = inv.Team.Name
	}

	h.renderInvitationPage(c, inv.ID.String(), teamName, senderName, inv.Message)
}

func (h *InvitePageHandler) AcceptInvitation(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		h.renderError(c, "Invalid invitation link")
		return
	}

	inv, err := h.invitationService.GetByID(context.Background(), invitationID)
	if err != nil {
		h.renderError(c, "Invitation not found or already processed")
		return
	}

	if err := h.invitationService.Accept(context.Background(), invitationID, inv.RecipientID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			h.renderError(c, "Invitation not found or already processed")
			return
		}
		h.renderError(c, "Failed to accept invitation")
		return
	}

	teamName := "the team"
	if inv.Team != nil {
		teamName = inv.Team.Name
	}

	h.renderMessage(c, fmt.Sprintf("You have joined %s!", teamName))
}

func (h *InvitePageHandler) DeclineInvitation(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		h.renderError(c, "Invalid invitation link")
		return
	}

	inv, err := h.invitationService.GetByID(context.Background(), invitationID)
	if err != nil {
		h.renderError(c, "Invitation not found or already processed")
		return
	}

	if err := h.invitationService.Decline(context.Background(), invitationID, inv.RecipientID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			h.renderError(c, "Invitation not found or already processed")
			return
		}
		h.renderError(c, "Failed to decline invitation")
		return
	}

	h.renderMessage(c, "Invitation declined")
}

func (h *InvitePageHandler) renderInvitationPage(c *drift.Context, invitationID, teamName, senderName, message string) {
	// Team name, sender name and message are user-supplied free text
	// rendered on an unauthenticated page; escape them.
	messageBlock := ""
	if message != "" {
		messageBlock = fmt.Sprintf(`<blockquote style="color:#666;border-left:3px solid #d1d5db;padding-left:10px;text-align:left;">%s</blockquote>`, html.EscapeString(message))
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Team Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #333; }
        p { color: #666; margin: 20px 0; }
        .team-name { font-weight: bold; color: #333; }
        .buttons { display: flex; gap: 10px; justify-content: center; margin-top: 30px; }
        button { padding: 12px 24px; font-size: 16px; border: none; border-radius: 6px; cursor: pointer; }
        .accept { background: #22c55e; color: white; }
        .accept:hover { background: #16a34a; }
        .decline { background: #e5e7eb; color: #333; }
        .decline:hover { background: #d1d5db; }
    </style>
</head>
<body>
    <h1>Team Invitation</h1>
    <p><strong>%s</strong> has invited you to join</p>
    <p class="team-name">%s</p>
    %s
    <div class="buttons">
        <form action="/invitations/%s/accept" method="POST" style="display:inline;">
            <button type="submit" class="accept">Accept</button>
        </form>
        <form action="/invitations/%s/decline" method="POST" style="display:inline;">
            <button type="submit" class="decline">Decline</button>
        </form>
    </div>
</body>
</html>`, html.EscapeString(senderName), html.EscapeString(teamName), messageBlock, invitationID, invitationID)

	_ = c.HTML(200, page)
}

func (h *InvitePageHandler) renderMessage(c *drift.Context, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Team Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #22c55e; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>%s</h1>
</body>
</html>`, html.EscapeString(message))

	_ = c.HTML(200, page)
}

func (h *InvitePageHandler) renderError(c *drift.Context, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #ef4444; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>Error</h1>
    <p>%s</p>
</body>
</html>`, html.EscapeString(message))

	_ = c.HTML(400, page)
}
