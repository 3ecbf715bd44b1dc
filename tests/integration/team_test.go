package integration

import (
	"context"
	"testing"

	"github.com/mkovac/taskhub-api/internal/models"
	"github.com/mkovac/taskhub-api/internal/services"
	"github.com/mkovac/taskhub-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_Integration_Create(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)

	team, failures, err := svc.Create(ctx, "Test Team", "a team for testing", owner.ID, nil, "")

	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, "Test Team", team.Name)
	assert.Equal(t, owner.ID, team.OwnerID)

	// Verify owner is also a member
	isMember, err := svc.IsMember(ctx, team.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestTeamService_Integration_CreateWithInvitees(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB, nil, "")
	svc := services.NewTeamService(tdb.DB, invitations)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t)

	team, failures, err := svc.Create(ctx, "Test Team", "", owner.ID, []string{invitee.Username}, "come join")

	require.NoError(t, err)
	assert.Empty(t, failures)

	pending, err := invitations.GetUserPending(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, team.ID, pending[0].TeamID)
	assert.Equal(t, "come join", pending[0].Message)
}

func TestTeamService_Integration_CreateWithUnknownInvitee(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)

	// The team is created even though the invitation cannot be sent.
	team, failures, err := svc.Create(ctx, "Test Team", "", owner.ID, []string{"@nobody"}, "")

	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	require.Len(t, failures, 1)
	assert.Equal(t, "@nobody", failures[0].Username)
}

func TestTeamService_Integration_GetUserTeams(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)

	fixtures.CreateTeam(t, owner, testutil.WithTeamName("Team 1"))
	team2 := fixtures.CreateTeam(t, owner, testutil.WithTeamName("Team 2"))
	fixtures.AddTeamMember(t, team2, member)

	ownerTeams, ownerRoles, err := svc.GetUserTeams(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, ownerTeams, 2)
	assert.Equal(t, models.RoleOwner, ownerRoles[0])
	assert.Equal(t, models.RoleOwner, ownerRoles[1])

	memberTeams, memberRoles, err := svc.GetUserTeams(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, memberTeams, 1)
	assert.Equal(t, team2.ID, memberTeams[0].ID)
	assert.Equal(t, models.RoleMember, memberRoles[0])
}

func TestTeamService_Integration_RemoveMemberDeletesTheirTasks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	tasks := services.NewTaskService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	otherTeam := fixtures.CreateTeam(t, owner)
	fixtures.AddTeamMember(t, team, member)
	fixtures.AddTeamMember(t, otherTeam, member)

	fixtures.CreateTask(t, team, member)
	fixtures.CreateTask(t, team, owner)
	keep := fixtures.CreateTask(t, otherTeam, member)

	err := svc.RemoveMember(ctx, team.ID, member.ID)
	require.NoError(t, err)

	isMember, err := svc.IsMember(ctx, team.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	// The member's tasks in this team are gone; the owner's task and
	// the member's task in the other team survive.
	teamTasks, err := tasks.GetTeamTasks(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, teamTasks, 1)
	assert.Equal(t, owner.ID, teamTasks[0].AssignedTo)

	otherTasks, err := tasks.GetTeamTasks(ctx, otherTeam.ID)
	require.NoError(t, err)
	require.Len(t, otherTasks, 1)
	assert.Equal(t, keep.ID, otherTasks[0].ID)
}

func TestTeamService_Integration_OwnerCannotBeRemoved(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)

	err := svc.RemoveMember(ctx, team.ID, owner.ID)
	assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)

	err = svc.Leave(ctx, team.ID, owner.ID)
	assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)

	isMember, err := svc.IsMember(ctx, team.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestTeamService_Integration_DeleteCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTeamService(tdb.DB)
	tasks := services.NewTaskService(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB, nil, "")
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	fixtures.AddTeamMember(t, team, member)
	task := fixtures.CreateTask(t, team, member)
	fixtures.CreateInvitation(t, team, owner, outsider, "")

	err := svc.Delete(ctx, team.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, services.ErrTeamNotFound)

	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	pending, err := invitations.GetUserPending(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
