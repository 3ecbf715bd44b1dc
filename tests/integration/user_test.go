package integration

import (
	"context"
	"testing"
	"time"

	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_CreateAndAuthenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Create(ctx, services.CreateUserInput{
		Username:  "@ana42",
		FirstName: "Ana",
		LastName:  "Petrov",
		Email:     "ana@example.com",
		Password:  "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "@ana42", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "@ana42", "WrongPass1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserService_Integration_DuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	existing := fixtures.CreateUser(t)

	_, err := svc.Create(ctx, services.CreateUserInput{
		Username:  existing.Username,
		FirstName: "Ana",
		LastName:  "Petrov",
		Email:     "other@example.com",
		Password:  "Sup3rSecret",
	})

	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestUserService_Integration_UpdateProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	updated, err := svc.UpdateProfile(ctx, user.ID, "Renamed", "Person", "renamed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.Equal(t, "renamed@example.com", updated.Email)
	assert.Equal(t, user.Username, updated.Username)
}

func TestTokenService_Integration_RefreshLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	jwtSvc := testutil.TestJWTService()
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	pair, err := jwtSvc.GenerateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	hash := services.HashToken(pair.RefreshToken)
	expiresAt := time.Now().Add(jwtSvc.RefreshExpiry())

	err = svc.StoreRefreshToken(ctx, user.ID, hash, expiresAt)
	require.NoError(t, err)

	got, err := svc.ValidateRefreshToken(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)

	err = svc.RevokeRefreshToken(ctx, hash)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, hash)
	assert.Error(t, err)
}
