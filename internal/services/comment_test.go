package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/services"
)

func TestCommentForestListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticket := f.createTicket(t, project.ID, "Discussed", services.CreateTicketInput{})

	rootA, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "first thread", nil)
	require.NoError(t, err)
	rootB, err := f.comments.Create(ctx, f.member.ID, project.ID, ticket.ID, "second thread", nil)
	require.NoError(t, err)

	replyA1, err := f.comments.Create(ctx, f.member.ID, project.ID, ticket.ID, "reply", &rootA.ID)
	require.NoError(t, err)
	replyA1a, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "nested reply", &replyA1.ID)
	require.NoError(t, err)

	roots, err := f.comments.List(ctx, f.owner.ID, project.ID, ticket.ID)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	byID := map[uint]models.Comment{}
	for _, root := range roots {
		byID[root.ID] = root
	}

	threadA := byID[rootA.ID]
	require.Len(t, threadA.Replies, 1)
	assert.Equal(t, replyA1.ID, threadA.Replies[0].ID)
	require.Len(t, threadA.Replies[0].Replies, 1)
	assert.Equal(t, replyA1a.ID, threadA.Replies[0].Replies[0].ID)

	assert.Empty(t, byID[rootB.ID].Replies)

	// Authors ride along with the listing.
	assert.Equal(t, f.owner.Email, threadA.Author.Email)
	assert.Equal(t, f.member.Email, threadA.Replies[0].Author.Email)
}

func TestCreateCommentRejectsDanglingParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticket := f.createTicket(t, project.ID, "Discussed", services.CreateTicketInput{})

	missing := uint(9999)
	_, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "orphan", &missing)
	assert.ErrorIs(t, err, services.ErrInvalidParent)
}

func TestCreateCommentRejectsParentFromOtherTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticketA := f.createTicket(t, project.ID, "A", services.CreateTicketInput{})
	ticketB := f.createTicket(t, project.ID, "B", services.CreateTicketInput{})

	onA, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticketA.ID, "on A", nil)
	require.NoError(t, err)

	_, err = f.comments.Create(ctx, f.owner.ID, project.ID, ticketB.ID, "cross-ticket reply", &onA.ID)
	assert.ErrorIs(t, err, services.ErrInvalidParent)
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticket := f.createTicket(t, project.ID, "Discussed", services.CreateTicketInput{})

	root, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "root", nil)
	require.NoError(t, err)
	child, err := f.comments.Create(ctx, f.member.ID, project.ID, ticket.ID, "child", nil)
	require.NoError(t, err)

	reply1, err := f.comments.Create(ctx, f.member.ID, project.ID, ticket.ID, "r1", &root.ID)
	require.NoError(t, err)
	reply2, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "r2", &root.ID)
	require.NoError(t, err)
	deep, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "deep", &reply1.ID)
	require.NoError(t, err)

	require.NoError(t, f.comments.Delete(ctx, f.owner.ID, project.ID, ticket.ID, root.ID))

	for _, id := range []uint{root.ID, reply1.ID, reply2.ID, deep.ID} {
		var count int64
		require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error)
		assert.EqualValues(t, 0, count, "comment %d should be gone", id)
	}

	// The unrelated thread survives.
	roots, err := f.comments.List(ctx, f.owner.ID, project.ID, ticket.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, child.ID, roots[0].ID)
}

func TestDeleteMissingCommentIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticket := f.createTicket(t, project.ID, "Quiet", services.CreateTicketInput{})

	err := f.comments.Delete(ctx, f.owner.ID, project.ID, ticket.ID, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateCommentRequiresContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "Board")
	ticket := f.createTicket(t, project.ID, "Quiet", services.CreateTicketInput{})

	_, err := f.comments.Create(ctx, f.owner.ID, project.ID, ticket.ID, "   ", nil)
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}
