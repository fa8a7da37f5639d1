package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/services"
)

func TestCreateWorkspaceSetsOwner(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, f.owner.ID, f.workspace.OwnerID)
	assert.Equal(t, "Acme", f.workspace.Name)
}

func TestListWorkspacesCoversOwnedAndMemberOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.workspaces.Create(ctx, f.member.ID, "Member's own", "")
	require.NoError(t, err)

	owned, err := f.workspaces.List(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, f.workspace.ID, owned[0].ID)

	memberView, err := f.workspaces.List(ctx, f.member.ID)
	require.NoError(t, err)
	ids := []uint{memberView[0].ID, memberView[1].ID}
	assert.Len(t, memberView, 2)
	assert.Contains(t, ids, f.workspace.ID)
	assert.Contains(t, ids, other.ID)

	outsiderView, err := f.workspaces.List(ctx, f.outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, outsiderView)
}

func TestAddMemberTwiceFailsWithAlreadyMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.workspaces.AddMember(ctx, f.owner.ID, f.workspace.ID, f.member.Email)
	assert.ErrorIs(t, err, services.ErrAlreadyMember)

	// The failed add did not mutate the members set.
	var count int64
	require.NoError(t, f.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ?", f.workspace.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Repeating the failure is idempotent.
	err = f.workspaces.AddMember(ctx, f.owner.ID, f.workspace.ID, f.member.Email)
	assert.ErrorIs(t, err, services.ErrAlreadyMember)
}

func TestAddMemberUnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.workspaces.AddMember(context.Background(), f.owner.ID, f.workspace.ID, "ghost@example.com")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestAddOwnerAsMemberIsRejected(t *testing.T) {
	f := newFixture(t)

	err := f.workspaces.AddMember(context.Background(), f.owner.ID, f.workspace.ID, f.owner.Email)
	assert.ErrorIs(t, err, services.ErrAlreadyMember)
}

func TestListMembersSynthesizesOwner(t *testing.T) {
	f := newFixture(t)

	members, err := f.workspaces.ListMembers(context.Background(), f.member.ID, f.workspace.ID)
	require.NoError(t, err)

	emails := make([]string, 0, len(members))
	for _, member := range members {
		emails = append(emails, member.Email)
	}

	assert.Len(t, members, 2)
	assert.Contains(t, emails, f.member.Email)
	assert.Contains(t, emails, f.owner.Email)
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Doomed")
	ticket := f.createTicket(t, project.ID, "Doomed ticket", services.CreateTicketInput{})

	comment, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "root", nil)
	require.NoError(t, err)
	reply, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "reply", &comment.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&models.Attachment{
		FileName: "spec.pdf",
		FileURL:  "/uploads/spec.pdf",
		TicketID: ticket.ID,
	}).Error)

	require.NoError(t, f.workspaces.Delete(ctx, f.owner.ID, f.workspace.ID))

	// Nothing below the workspace is retrievable afterwards.
	for model, id := range map[interface{}]uint{
		&models.Workspace{}:  f.workspace.ID,
		&models.Project{}:    project.ID,
		&models.Ticket{}:     ticket.ID,
		&models.Comment{}:    comment.ID,
		&models.Attachment{}: 0,
	} {
		var count int64
		query := f.db.Model(model)
		if id != 0 {
			query = query.Where("id = ?", id)
		}
		require.NoError(t, query.Count(&count).Error)
		assert.EqualValues(t, 0, count, "%T should be gone", model)
	}

	var replies int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", reply.ID).Count(&replies).Error)
	assert.EqualValues(t, 0, replies)

	var memberships int64
	require.NoError(t, f.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ?", f.workspace.ID).Count(&memberships).Error)
	assert.EqualValues(t, 0, memberships)
}

func TestFailedDeleteLeavesWorkspaceIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Survivor")
	ticket := f.createTicket(t, project.ID, "Still here", services.CreateTicketInput{})

	err := f.workspaces.Delete(ctx, f.outsider.ID, f.workspace.ID)
	require.ErrorIs(t, err, services.ErrAccessDenied)

	projects, err := f.projects.List(ctx, f.owner.ID, f.workspace.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	tickets, err := f.tickets.List(ctx, f.owner.ID, project.ID, services.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, ticket.ID, tickets[0].ID)
}
