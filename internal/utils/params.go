package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func idParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

func GetWorkspaceID(ctx *gin.Context) (uint, error) {
	return idParam(ctx, "workspace_id")
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return idParam(ctx, "project_id")
}

func GetTicketID(ctx *gin.Context) (uint, error) {
	return idParam(ctx, "ticket_id")
}

func GetCommentID(ctx *gin.Context) (uint, error) {
	return idParam(ctx, "comment_id")
}

func GetProjectTicketID(ctx *gin.Context) (uint, uint, error) {
	projectID, err := GetProjectID(ctx)

	if err != nil {
		return 0, 0, err
	}

	ticketID, err := GetTicketID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return projectID, ticketID, nil
}
