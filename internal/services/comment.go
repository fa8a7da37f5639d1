package services

import (
	"context"
	"strings"

	"github.com/tracklane/tracklane/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(database *gorm.DB) *CommentService {
	return &CommentService{db: database}
}

// Create adds a comment authored by the calling user. A parent id, when
// given, must reference an existing comment on the same ticket; anything
// else is rejected so the reply forest never holds dangling nodes.
func (s *CommentService) Create(ctx context.Context, userID uint, projectID, ticketID uint, content string, parentID *uint) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidArgument
	}

	var comment models.Comment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := requireTicketAccess(tx, projectID, ticketID, userID, OwnerOrMember)
		if err != nil {
			return err
		}

		if parentID != nil {
			var count int64

			err := tx.Model(&models.Comment{}).
				Where("id = ? AND ticket_id = ?", *parentID, ticket.ID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrInvalidParent
			}
		}

		comment = models.Comment{
			Content:  content,
			TicketID: ticket.ID,
			AuthorID: userID,
			ParentID: parentID,
		}

		return tx.Create(&comment).Error
	})

	if err != nil {
		return nil, translateDBError(err)
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, translateDBError(err)
	}

	return &comment, nil
}

// List returns the ticket's root comments, each carrying its full reply
// subtree in the Replies relation.
func (s *CommentService) List(ctx context.Context, userID uint, projectID, ticketID uint) ([]models.Comment, error) {
	ticket, err := requireTicketAccess(s.db.WithContext(ctx), projectID, ticketID, userID, OwnerOrMember)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment

	err = s.db.WithContext(ctx).
		Preload("Author").
		Where("ticket_id = ?", ticket.ID).
		Order("id").
		Find(&comments).Error

	if err != nil {
		return nil, translateDBError(err)
	}

	return buildCommentForest(comments), nil
}

// Delete removes a comment and its entire reply subtree in one
// transaction.
func (s *CommentService) Delete(ctx context.Context, userID uint, projectID, ticketID, commentID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := requireTicketAccess(tx, projectID, ticketID, userID, OwnerOrMember)
		if err != nil {
			return err
		}

		var comments []models.Comment

		if err := tx.Select("id", "parent_id").Where("ticket_id = ?", ticket.ID).Find(&comments).Error; err != nil {
			return err
		}

		subtree := collectSubtree(comments, commentID)
		if subtree == nil {
			return ErrNotFound
		}

		return tx.Where("id IN ?", subtree).Delete(&models.Comment{}).Error
	})

	return translateDBError(err)
}

// buildCommentForest links a flat comment list into reply trees and
// returns the roots, materialized depth-first so nested replies are
// complete at every level.
func buildCommentForest(comments []models.Comment) []models.Comment {
	children := make(map[uint][]int, len(comments))
	var rootIndexes []int

	for i := range comments {
		if comments[i].ParentID == nil {
			rootIndexes = append(rootIndexes, i)
		} else {
			parentID := *comments[i].ParentID
			children[parentID] = append(children[parentID], i)
		}
	}

	var build func(i int) models.Comment
	build = func(i int) models.Comment {
		node := comments[i]
		node.Replies = nil
		for _, child := range children[node.ID] {
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	roots := make([]models.Comment, 0, len(rootIndexes))
	for _, i := range rootIndexes {
		roots = append(roots, build(i))
	}

	return roots
}

// collectSubtree returns the ids of the comment and every descendant
// reply, or nil if the root id is not in the list.
func collectSubtree(comments []models.Comment, rootID uint) []uint {
	children := make(map[uint][]uint, len(comments))
	present := false

	for _, comment := range comments {
		if comment.ID == rootID {
			present = true
		}
		if comment.ParentID != nil {
			children[*comment.ParentID] = append(children[*comment.ParentID], comment.ID)
		}
	}

	if !present {
		return nil
	}

	subtree := []uint{rootID}

	for i := 0; i < len(subtree); i++ {
		subtree = append(subtree, children[subtree[i]]...)
	}

	return subtree
}
