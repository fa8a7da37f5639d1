package services

import (
	"context"

	"github.com/tracklane/tracklane/internal/models"
	"gorm.io/gorm"
)

// WorkspaceStats is recomputed from the live hierarchy on every call.
// Nothing here is cached or maintained as a counter column, so a read
// immediately after a mutation reflects it.
type WorkspaceStats struct {
	ProjectCount int64            `json:"project_count"`
	TotalTickets int64            `json:"total_tickets"`
	StatusCounts map[string]int64 `json:"status_counts"`
}

// Stats aggregates project and ticket counts across the workspace.
// Statuses with no tickets are omitted from the map rather than
// zero-filled.
func (s *WorkspaceService) Stats(ctx context.Context, userID uint, workspaceID uint) (*WorkspaceStats, error) {
	stats := WorkspaceStats{StatusCounts: make(map[string]int64)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireWorkspaceAccess(tx, workspaceID, userID, OwnerOrMember); err != nil {
			return err
		}

		err := tx.Model(&models.Project{}).
			Where("workspace_id = ?", workspaceID).
			Count(&stats.ProjectCount).Error
		if err != nil {
			return err
		}

		var rows []struct {
			Status models.TicketStatus
			Count  int64
		}

		err = tx.Model(&models.Ticket{}).
			Select("tickets.status AS status, COUNT(tickets.id) AS count").
			Joins("JOIN projects ON projects.id = tickets.project_id").
			Where("projects.workspace_id = ? AND projects.deleted_at IS NULL", workspaceID).
			Group("tickets.status").
			Scan(&rows).Error
		if err != nil {
			return err
		}

		for _, row := range rows {
			stats.StatusCounts[string(row.Status)] = row.Count
			stats.TotalTickets += row.Count
		}

		return nil
	})

	if err != nil {
		return nil, translateDBError(err)
	}

	return &stats, nil
}
