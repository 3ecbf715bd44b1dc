package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func inviteWithRelations(message string) *models.Invitation {
	teamID := uuid.New()
	senderID := uuid.New()
	return &models.Invitation{
		ID:          uuid.New(),
		TeamID:      teamID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Message:     message,
		CreatedAt:   time.Now(),
		Team:        &models.Team{ID: teamID, Name: "Backend Crew", OwnerID: senderID},
		Sender:      &models.User{ID: senderID, Username: "@ana42", FirstName: "Ana", LastName: "Petrov"},
	}
}

func TestInvitePageHandler_ViewInvitation(t *testing.T) {
	mockInvitationService := new(testutil.MockInvitationService)
	handler := NewInvitePageHandler(mockInvitationService)

	inv := inviteWithRelations("come join us")
	mockInvitationService.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	app := drift.New()
	app.Get("/invitations/:invitationId", handler.ViewInvitation)

	req := httptest.NewRequest(http.MethodGet, "/invitations/"+inv.ID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ana Petrov")
	assert.Contains(t, body, "Backend Crew")
	assert.Contains(t, body, "come join us")
	assert.NotContains(t, body, "Someone")

	mockInvitationService.AssertExpectations(t)
}

func TestInvitePageHandler_ViewInvitation_EscapesMessage(t *testing.T) {
	mockInvitationService := new(testutil.MockInvitationService)
	handler := NewInvitePageHandler(mockInvitationService)

	inv := inviteWithRelations(`<script>alert(1)</script>`)
	inv.Team.Name = `<b>Crew</b>`
	mockInvitationService.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	app := drift.New()
	app.Get("/invitations/:invitationId", handler.ViewInvitation)

	req := httptest.NewRequest(http.MethodGet, "/invitations/"+inv.ID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, body, "<b>Crew</b>")
	assert.Contains(t, body, "&lt;b&gt;Crew&lt;/b&gt;")

	mockInvitationService.AssertExpectations(t)
}

func TestInvitePageHandler_AcceptInvitation(t *testing.T) {
	mockInvitationService := new(testutil.MockInvitationService)
	handler := NewInvitePageHandler(mockInvitationService)

	inv := inviteWithRelations("")
	mockInvitationService.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	mockInvitationService.On("Accept", mock.Anything, inv.ID, inv.RecipientID).Return(nil)

	app := drift.New()
	app.Post("/invitations/:invitationId/accept", handler.AcceptInvitation)

	req := httptest.NewRequest(http.MethodPost, "/invitations/"+inv.ID.String()+"/accept", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You have joined Backend Crew!")

	mockInvitationService.AssertExpectations(t)
}

func TestInvitePageHandler_ViewInvitation_NotFound(t *testing.T) {
	mockInvitationService := new(testutil.MockInvitationService)
	handler := NewInvitePageHandler(mockInvitationService)

	invitationID := uuid.New()
	mockInvitationService.On("GetByID", mock.Anything, invitationID).
		Return(nil, assert.AnError)

	app := drift.New()
	app.Get("/invitations/:invitationId", handler.ViewInvitation)

	req := httptest.NewRequest(http.MethodGet, "/invitations/"+invitationID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invitation not found or already processed")

	mockInvitationService.AssertExpectations(t)
}
