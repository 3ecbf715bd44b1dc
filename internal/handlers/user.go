package handlers

import (
	"context"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/pkg/dto"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, userResponse(user))
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(context.Background(), userID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, userResponse(user))
}
