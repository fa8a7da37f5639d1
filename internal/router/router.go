package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tracklane/tracklane/internal/handlers"
	"github.com/tracklane/tracklane/internal/middleware"
	"github.com/tracklane/tracklane/internal/types"
	"go.uber.org/zap"
)

func NewRouter(logger *zap.Logger, uploadsDir string) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", uploadsDir)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		workspaces := api.Group("/workspaces", middleware.AuthMiddleware())
		{
			workspaces.POST("", handlers.CreateWorkspace)
			workspaces.GET("", handlers.ListWorkspaces)
			workspaces.DELETE("/:workspace_id", handlers.DeleteWorkspace)

			workspaces.POST("/:workspace_id/members", handlers.AddWorkspaceMember)
			workspaces.GET("/:workspace_id/members", handlers.ListWorkspaceMembers)

			workspaces.GET("/:workspace_id/stats", handlers.GetWorkspaceStats)

			workspaces.POST("/:workspace_id/projects", handlers.CreateProject)
			workspaces.GET("/:workspace_id/projects", handlers.ListProjects)
			workspaces.DELETE("/:workspace_id/projects/:project_id", handlers.DeleteProject)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("/:project_id/tickets", handlers.CreateTicket)
			projects.GET("/:project_id/tickets", handlers.ListTickets)
			projects.PATCH("/:project_id/tickets/:ticket_id", handlers.UpdateTicket)
			projects.DELETE("/:project_id/tickets/:ticket_id", handlers.DeleteTicket)

			projects.POST("/:project_id/tickets/:ticket_id/comments", handlers.CreateComment)
			projects.GET("/:project_id/tickets/:ticket_id/comments", handlers.ListComments)
			projects.DELETE("/:project_id/tickets/:ticket_id/comments/:comment_id", handlers.DeleteComment)

			projects.POST("/:project_id/tickets/:ticket_id/attachments", handlers.CreateAttachment)
			projects.GET("/:project_id/tickets/:ticket_id/attachments", handlers.ListAttachments)
		}
	}

	return r
}
