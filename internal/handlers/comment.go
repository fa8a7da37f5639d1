package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/types"
	"github.com/tracklane/tracklane/internal/utils"
)

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type CommentResponse struct {
	ID        uint               `json:"id"`
	Content   string             `json:"content"`
	TicketID  uint               `json:"ticket_id"`
	ParentID  *uint              `json:"parent_id"`
	Author    types.UserResponse `json:"author"`
	Replies   []CommentResponse  `json:"replies"`
	CreatedAt time.Time          `json:"created_at"`
}

func commentResponse(comment models.Comment) CommentResponse {
	response := CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		TicketID:  comment.TicketID,
		ParentID:  comment.ParentID,
		Author:    userResponse(comment.Author),
		Replies:   make([]CommentResponse, 0, len(comment.Replies)),
		CreatedAt: comment.CreatedAt,
	}

	for _, reply := range comment.Replies {
		response.Replies = append(response.Replies, commentResponse(reply))
	}

	return response
}

func CreateComment(ctx *gin.Context) {
	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ticketID, err := utils.GetProjectTicketID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := commentService.Create(ctx.Request.Context(), userID, projectID, ticketID, body.Content, body.ParentID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))
	ctx.JSON(http.StatusCreated, commentResponse(*comment))
}

func ListComments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ticketID, err := utils.GetProjectTicketID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comments, err := commentService.List(ctx.Request.Context(), userID, projectID, ticketID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]CommentResponse, 0, len(comments))

	for _, comment := range comments {
		response = append(response, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ticketID, err := utils.GetProjectTicketID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := commentService.Delete(ctx.Request.Context(), userID, projectID, ticketID, commentID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))
	ctx.Status(http.StatusNoContent)
}
