package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tracklane/tracklane/internal/models"
	"gorm.io/gorm"
)

type WorkspaceService struct {
	db *gorm.DB
}

func NewWorkspaceService(database *gorm.DB) *WorkspaceService {
	return &WorkspaceService{db: database}
}

// Create makes the calling user the owner of the new workspace. Ownership
// is fixed at creation and never reassigned.
func (s *WorkspaceService) Create(ctx context.Context, userID uint, name, description string) (*models.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidArgument
	}

	workspace := models.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     userID,
	}

	if err := s.db.WithContext(ctx).Create(&workspace).Error; err != nil {
		return nil, translateDBError(err)
	}

	return &workspace, nil
}

// List returns workspaces the user owns plus those they are a member of.
func (s *WorkspaceService) List(ctx context.Context, userID uint) ([]models.Workspace, error) {
	var workspaces []models.Workspace

	memberOf := s.db.Model(&models.WorkspaceMember{}).
		Select("workspace_id").
		Where("user_id = ?", userID)

	err := s.db.WithContext(ctx).
		Preload("Members.User").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Find(&workspaces).Error

	if err != nil {
		return nil, translateDBError(err)
	}

	return workspaces, nil
}

// Delete removes the workspace and everything beneath it in one
// transaction: projects, their tickets, and each ticket's comments and
// attachments. Only the owner may delete.
func (s *WorkspaceService) Delete(ctx context.Context, userID uint, workspaceID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workspace, err := requireWorkspaceAccess(tx, workspaceID, userID, OwnerOnly)
		if err != nil {
			return err
		}

		var projects []models.Project

		if err := tx.Where("workspace_id = ?", workspace.ID).Find(&projects).Error; err != nil {
			return err
		}

		for _, project := range projects {
			if err := deleteProjectCascade(tx, project.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("workspace_id = ?", workspace.ID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(workspace).Error
	})

	return translateDBError(err)
}

// AddMember grants a registered user membership by email. Only the owner
// may add members. The composite key on workspace_members turns a
// concurrent double-add into a duplicate-key failure, reported as
// AlreadyMember.
func (s *WorkspaceService) AddMember(ctx context.Context, userID uint, workspaceID uint, email string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workspace, err := requireWorkspaceAccess(tx, workspaceID, userID, OwnerOnly)
		if err != nil {
			return err
		}

		var target models.User

		email = strings.ToLower(strings.TrimSpace(email))

		if err := tx.Where("email = ?", email).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if ResolveAccess(workspace, target.ID) != AccessNone {
			return ErrAlreadyMember
		}

		membership := models.WorkspaceMember{
			UserID:      target.ID,
			WorkspaceID: workspace.ID,
		}

		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}

		return nil
	})

	return translateDBError(err)
}

// ListMembers returns the workspace's members with the owner included,
// so callers get the full set of assignable users.
func (s *WorkspaceService) ListMembers(ctx context.Context, userID uint, workspaceID uint) ([]models.User, error) {
	workspace, err := requireWorkspaceAccess(s.db.WithContext(ctx), workspaceID, userID, OwnerOrMember)
	if err != nil {
		return nil, err
	}

	var members []models.User

	err = s.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.user_id = users.id").
		Where("workspace_members.workspace_id = ?", workspaceID).
		Find(&members).Error

	if err != nil {
		return nil, translateDBError(err)
	}

	for _, member := range members {
		if member.ID == workspace.OwnerID {
			return members, nil
		}
	}

	var owner models.User

	if err := s.db.WithContext(ctx).First(&owner, workspace.OwnerID).Error; err != nil {
		return nil, translateDBError(err)
	}

	return append(members, owner), nil
}
