package handlers

import (
	"errors"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/internal/validation"
)

// respondServiceError maps service failures onto HTTP responses:
// validation errors carry their field map as a 400, permission
// sentinels become 403, missing entities 404, conflicts 409.
func respondServiceError(c *drift.Context, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		_ = c.JSON(400, map[string]any{"errors": errs})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotRecipient):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrSelfInvite):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrDuplicateInvitation),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		_ = c.JSON(409, map[string]string{"error": err.Error()})
	default:
		c.InternalServerError("internal error")
	}
}
