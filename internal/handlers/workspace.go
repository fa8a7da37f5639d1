package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/types"
	"github.com/tracklane/tracklane/internal/utils"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type WorkspaceResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	OwnerID     uint                 `json:"owner_id"`
	CreatedAt   time.Time            `json:"created_at"`
	Members     []types.UserResponse `json:"members"`
}

func workspaceResponse(workspace models.Workspace) WorkspaceResponse {
	members := make([]types.UserResponse, 0, len(workspace.Members))

	for _, membership := range workspace.Members {
		members = append(members, userResponse(membership.User))
	}

	return WorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		CreatedAt:   workspace.CreatedAt,
		Members:     members,
	}
}

func CreateWorkspace(ctx *gin.Context) {
	var body CreateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspace, err := workspaceService.Create(ctx.Request.Context(), userID, body.Name, body.Description)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, workspaceResponse(*workspace))
}

func ListWorkspaces(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaces, err := workspaceService.List(ctx.Request.Context(), userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]WorkspaceResponse, 0, len(workspaces))

	for _, workspace := range workspaces {
		response = append(response, workspaceResponse(workspace))
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteWorkspace(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := workspaceService.Delete(ctx.Request.Context(), userID, workspaceID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func AddWorkspaceMember(ctx *gin.Context) {
	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := workspaceService.AddMember(ctx.Request.Context(), userID, workspaceID, body.Email); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User " + body.Email + " added to workspace"})
}

func ListWorkspaceMembers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	members, err := workspaceService.ListMembers(ctx.Request.Context(), userID, workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(members))

	for _, member := range members {
		response = append(response, userResponse(member))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetWorkspaceStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := workspaceService.Stats(ctx.Request.Context(), userID, workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
