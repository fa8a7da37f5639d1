package services

import (
	"context"
	"strings"

	"github.com/tracklane/tracklane/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(database *gorm.DB) *ProjectService {
	return &ProjectService{db: database}
}

func (s *ProjectService) Create(ctx context.Context, userID uint, workspaceID uint, name, description, imageURL string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidArgument
	}

	var project models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireWorkspaceAccess(tx, workspaceID, userID, OwnerOrMember); err != nil {
			return err
		}

		project = models.Project{
			Name:        name,
			Description: description,
			ImageURL:    imageURL,
			WorkspaceID: workspaceID,
		}

		return tx.Create(&project).Error
	})

	if err != nil {
		return nil, translateDBError(err)
	}

	return &project, nil
}

func (s *ProjectService) List(ctx context.Context, userID uint, workspaceID uint) ([]models.Project, error) {
	if _, err := requireWorkspaceAccess(s.db.WithContext(ctx), workspaceID, userID, OwnerOrMember); err != nil {
		return nil, err
	}

	var projects []models.Project

	if err := s.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&projects).Error; err != nil {
		return nil, translateDBError(err)
	}

	return projects, nil
}

// Delete removes the project and cascades through its tickets. Deleting a
// project is reserved for the workspace owner.
func (s *ProjectService) Delete(ctx context.Context, userID uint, workspaceID uint, projectID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireWorkspaceAccess(tx, workspaceID, userID, OwnerOnly); err != nil {
			return err
		}

		var project models.Project

		if err := tx.Where("workspace_id = ?", workspaceID).First(&project, projectID).Error; err != nil {
			return err
		}

		return deleteProjectCascade(tx, project.ID)
	})

	return translateDBError(err)
}

// deleteProjectCascade removes a project with all of its tickets and
// their comments and attachments. Callers are responsible for running it
// inside a transaction.
func deleteProjectCascade(tx *gorm.DB, projectID uint) error {
	var tickets []models.Ticket

	if err := tx.Where("project_id = ?", projectID).Find(&tickets).Error; err != nil {
		return err
	}

	for _, ticket := range tickets {
		if err := deleteTicketCascade(tx, ticket.ID); err != nil {
			return err
		}
	}

	return tx.Delete(&models.Project{}, projectID).Error
}
