package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/services"
	"github.com/tracklane/tracklane/internal/types"
	"github.com/tracklane/tracklane/internal/utils"
)

type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Type        string `json:"ticket_type"`
	AssigneeID  *uint  `json:"assignee_id"`
}

type UpdateTicketRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *string               `json:"status"`
	Priority    *string               `json:"priority"`
	Type        *string               `json:"ticket_type"`
	AssigneeID  services.OptionalUint `json:"assignee_id"`
}

type TicketResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	Priority    string               `json:"priority"`
	Type        string               `json:"ticket_type"`
	ProjectID   uint                 `json:"project_id"`
	AssigneeID  *uint                `json:"assignee_id"`
	Assignee    *types.UserResponse  `json:"assignee"`
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func ticketResponse(ticket models.Ticket) TicketResponse {
	response := TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		Type:        string(ticket.Type),
		ProjectID:   ticket.ProjectID,
		AssigneeID:  ticket.AssigneeID,
		Comments:    make([]CommentResponse, 0),
		Attachments: make([]AttachmentResponse, 0),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}

	if ticket.Assignee != nil {
		assignee := userResponse(*ticket.Assignee)
		response.Assignee = &assignee
	}

	for _, comment := range ticket.Comments {
		if comment.ParentID == nil {
			response.Comments = append(response.Comments, commentResponse(comment))
		}
	}

	for _, attachment := range ticket.Attachments {
		response.Attachments = append(response.Attachments, attachmentResponse(attachment))
	}

	return response
}

func CreateTicket(ctx *gin.Context) {
	var body CreateTicketRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := ticketService.Create(ctx.Request.Context(), userID, projectID, services.CreateTicketInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		Type:        body.Type,
		AssigneeID:  body.AssigneeID,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))
	ctx.JSON(http.StatusCreated, ticketResponse(*ticket))
}

func ListTickets(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := services.TicketFilter{
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
		Search:   ctx.Query("search"),
	}

	tickets, err := ticketService.List(ctx.Request.Context(), userID, projectID, filter)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]TicketResponse, 0, len(tickets))

	for _, ticket := range tickets {
		response = append(response, ticketResponse(ticket))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateTicket(ctx *gin.Context) {
	var body UpdateTicketRequest

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

	ticket, err := ticketService.Update(ctx.Request.Context(), userID, projectID, ticketID, services.UpdateTicketInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		Type:        body.Type,
		AssigneeID:  body.AssigneeID,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))
	ctx.JSON(http.StatusOK, ticketResponse(*ticket))
}

func DeleteTicket(ctx *gin.Context) {
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

	if err := ticketService.Delete(ctx.Request.Context(), userID, projectID, ticketID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(projectID), 10))
	ctx.Status(http.StatusNoContent)
}
