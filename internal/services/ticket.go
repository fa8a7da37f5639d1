package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tracklane/tracklane/internal/models"
	"gorm.io/gorm"
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(database *gorm.DB) *TicketService {
	return &TicketService{db: database}
}

// OptionalUint distinguishes an absent JSON field from an explicit null:
// Set reports whether the field appeared at all, Value is nil for null.
type OptionalUint struct {
	Set   bool
	Value *uint
}

func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	o.Value = &v
	return nil
}

type CreateTicketInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Type        string
	AssigneeID  *uint
}

type UpdateTicketInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Type        *string
	AssigneeID  OptionalUint
}

type TicketFilter struct {
	Status   string
	Priority string
	Search   string
}

func (s *TicketService) Create(ctx context.Context, userID uint, projectID uint, input CreateTicketInput) (*models.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidArgument
	}

	ticket := models.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusBacklog,
		Priority:    models.PriorityMedium,
		Type:        models.TypeBug,
		ProjectID:   projectID,
		AssigneeID:  input.AssigneeID,
	}

	var err error

	if input.Status != "" {
		if ticket.Status, err = models.ParseTicketStatus(input.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	if input.Priority != "" {
		if ticket.Priority, err = models.ParseTicketPriority(input.Priority); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	if input.Type != "" {
		if ticket.Type, err = models.ParseTicketType(input.Type); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireProjectAccess(tx, projectID, userID, OwnerOrMember); err != nil {
			return err
		}
		return tx.Create(&ticket).Error
	})

	if err != nil {
		return nil, translateDBError(err)
	}

	return s.Get(ctx, userID, projectID, ticket.ID)
}

// Get returns a ticket with its assignee, attachments and comment authors
// loaded in one logical fetch.
func (s *TicketService) Get(ctx context.Context, userID uint, projectID, ticketID uint) (*models.Ticket, error) {
	if _, err := requireProjectAccess(s.db.WithContext(ctx), projectID, userID, OwnerOrMember); err != nil {
		return nil, err
	}

	var ticket models.Ticket

	err := loadTicketRelations(s.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		First(&ticket, ticketID).Error

	if err != nil {
		return nil, translateDBError(err)
	}

	return &ticket, nil
}

// List returns the project's tickets, optionally narrowed by status and
// priority equality and by a case-insensitive substring search over title
// and description.
func (s *TicketService) List(ctx context.Context, userID uint, projectID uint, filter TicketFilter) ([]models.Ticket, error) {
	if _, err := requireProjectAccess(s.db.WithContext(ctx), projectID, userID, OwnerOrMember); err != nil {
		return nil, err
	}

	query := loadTicketRelations(s.db.WithContext(ctx)).Where("project_id = ?", projectID)

	if filter.Status != "" {
		status, err := models.ParseTicketStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		query = query.Where("status = ?", status)
	}

	if filter.Priority != "" {
		priority, err := models.ParseTicketPriority(filter.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		query = query.Where("priority = ?", priority)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var tickets []models.Ticket

	if err := query.Find(&tickets).Error; err != nil {
		return nil, translateDBError(err)
	}

	return tickets, nil
}

// Update applies a partial change: only fields present in the input are
// touched, and a present-but-null assignee clears the assignment. The
// ticket's project is never reassigned.
func (s *TicketService) Update(ctx context.Context, userID uint, projectID, ticketID uint, input UpdateTicketInput) (*models.Ticket, error) {
	updates := make(map[string]interface{})

	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		status, err := models.ParseTicketStatus(*input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		updates["status"] = status
	}
	if input.Priority != nil {
		priority, err := models.ParseTicketPriority(*input.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		updates["priority"] = priority
	}
	if input.Type != nil {
		ticketType, err := models.ParseTicketType(*input.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		updates["type"] = ticketType
	}
	if input.AssigneeID.Set {
		if input.AssigneeID.Value == nil {
			updates["assignee_id"] = nil
		} else {
			updates["assignee_id"] = *input.AssigneeID.Value
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := requireTicketAccess(tx, projectID, ticketID, userID, OwnerOrMember)
		if err != nil {
			return err
		}

		if len(updates) == 0 {
			return nil
		}

		return tx.Model(ticket).Updates(updates).Error
	})

	if err != nil {
		return nil, translateDBError(err)
	}

	return s.Get(ctx, userID, projectID, ticketID)
}

// Delete removes the ticket together with all of its comments and
// attachments in one transaction.
func (s *TicketService) Delete(ctx context.Context, userID uint, projectID, ticketID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := requireTicketAccess(tx, projectID, ticketID, userID, OwnerOrMember)
		if err != nil {
			return err
		}

		return deleteTicketCascade(tx, ticket.ID)
	})

	return translateDBError(err)
}

func loadTicketRelations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Assignee").
		Preload("Attachments").
		Preload("Comments.Author").
		Preload("Comments.Replies")
}

// deleteTicketCascade removes a ticket and its comments and attachments.
// Callers are responsible for running it inside a transaction.
func deleteTicketCascade(tx *gorm.DB, ticketID uint) error {
	if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.Attachment{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Ticket{}, ticketID).Error
}
