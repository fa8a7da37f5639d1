package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracklane/tracklane/db"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tracklane.db")

	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.MigrateDatabase(database))

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func createUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleMember,
	}
	require.NoError(t, database.Create(&user).Error)

	return user
}

// fixture builds owner/member/outsider users plus a workspace with the
// member already added.
type fixture struct {
	db         *gorm.DB
	workspaces *services.WorkspaceService
	projects   *services.ProjectService
	tickets    *services.TicketService
	comments   *services.CommentService

	owner    models.User
	member   models.User
	outsider models.User

	workspace *models.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	database := newTestDB(t)

	f := &fixture{
		db:         database,
		workspaces: services.NewWorkspaceService(database),
		projects:   services.NewProjectService(database),
		tickets:    services.NewTicketService(database),
		comments:   services.NewCommentService(database),
		owner:      createUser(t, database, "owner@example.com"),
		member:     createUser(t, database, "member@example.com"),
		outsider:   createUser(t, database, "outsider@example.com"),
	}

	workspace, err := f.workspaces.Create(ctx, f.owner.ID, "Acme", "shared workspace")
	require.NoError(t, err)
	f.workspace = workspace

	require.NoError(t, f.workspaces.AddMember(ctx, f.owner.ID, workspace.ID, f.member.Email))

	return f
}

func (f *fixture) createProject(t *testing.T, name string) *models.Project {
	t.Helper()

	project, err := f.projects.Create(context.Background(), f.owner.ID, f.workspace.ID, name, "", "")
	require.NoError(t, err)

	return project
}

func (f *fixture) createTicket(t *testing.T, projectID uint, title string, input services.CreateTicketInput) *models.Ticket {
	t.Helper()

	input.Title = title

	ticket, err := f.tickets.Create(context.Background(), f.owner.ID, projectID, input)
	require.NoError(t, err)

	return ticket
}
