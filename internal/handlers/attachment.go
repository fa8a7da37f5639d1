package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/utils"
)

type AttachmentResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	TicketID  uint      `json:"ticket_id"`
	CreatedAt time.Time `json:"created_at"`
}

func attachmentResponse(attachment models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        attachment.ID,
		FileName:  attachment.FileName,
		FileURL:   attachment.FileURL,
		TicketID:  attachment.TicketID,
		CreatedAt: attachment.CreatedAt,
	}
}

func CreateAttachment(ctx *gin.Context) {
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

	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	file, err := fileHeader.Open()

	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload"})
		return
	}
	defer file.Close()

	attachment, err := attachmentService.Create(ctx.Request.Context(), userID, projectID, ticketID, fileHeader.Filename, file)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, attachmentResponse(*attachment))
}

func ListAttachments(ctx *gin.Context) {
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

	attachments, err := attachmentService.List(ctx.Request.Context(), userID, projectID, ticketID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]AttachmentResponse, 0, len(attachments))

	for _, attachment := range attachments {
		response = append(response, attachmentResponse(attachment))
	}

	ctx.JSON(http.StatusOK, response)
}
