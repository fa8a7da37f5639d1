package handlers

import (
	"github.com/tracklane/tracklane/internal/services"
	"github.com/tracklane/tracklane/internal/storage"
	"gorm.io/gorm"
)

var (
	workspaceService  *services.WorkspaceService
	projectService    *services.ProjectService
	ticketService     *services.TicketService
	commentService    *services.CommentService
	attachmentService *services.AttachmentService
)

// Setup wires the handler package to its services. Called once from main
// before the router is built.
func Setup(database *gorm.DB, blobs storage.BlobStore) {
	workspaceService = services.NewWorkspaceService(database)
	projectService = services.NewProjectService(database)
	ticketService = services.NewTicketService(database)
	commentService = services.NewCommentService(database)
	attachmentService = services.NewAttachmentService(database, blobs)
}
