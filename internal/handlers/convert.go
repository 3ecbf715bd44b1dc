package handlers

import (
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/pkg/dto"
)

func userResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func teamResponse(t *models.Team, role string, failures []services.InviteFailure) *dto.TeamResponse {
	if t == nil {
		return nil
	}
	resp := &dto.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		Role:        role,
	}
	for _, f := range failures {
		resp.InviteFailures = append(resp.InviteFailures, dto.InviteFailure{
			Username: f.Username,
			Reason:   f.Reason,
		})
	}
	return resp
}

func memberResponse(m models.TeamMember) dto.TeamMemberResponse {
	resp := dto.TeamMemberResponse{
		ID:     m.ID,
		UserID: m.UserID,
		Role:   m.Role,
	}
	if m.User != nil {
		resp.User = *userResponse(m.User)
	}
	return resp
}

func invitationResponse(inv models.Invitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:        inv.ID,
		TeamID:    inv.TeamID,
		Message:   inv.Message,
		CreatedAt: inv.CreatedAt,
		Team:      teamResponse(inv.Team, "", nil),
		Sender:    userResponse(inv.Sender),
		Recipient: userResponse(inv.Recipient),
	}
}

func taskResponse(t models.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		TeamID:      t.TeamID,
		AssignedTo:  t.AssignedTo,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Team:        teamResponse(t.Team, "", nil),
		Assignee:    userResponse(t.Assignee),
	}
}
