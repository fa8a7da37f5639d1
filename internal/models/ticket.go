package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	StatusBacklog    TicketStatus = "backlog"
	StatusInProgress TicketStatus = "in_progress"
	StatusDone       TicketStatus = "done"
)

type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

type TicketType string

const (
	TypeBug     TicketType = "bug"
	TypeTask    TicketType = "task"
	TypeFeature TicketType = "feature"
)

// ParseTicketStatus folds input to lowercase before matching, so "Done"
// and "DONE" are accepted, but anything outside the enum is an error.
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch TicketStatus(strings.ToLower(s)) {
	case StatusBacklog:
		return StatusBacklog, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

func ParseTicketPriority(s string) (TicketPriority, error) {
	switch TicketPriority(strings.ToLower(s)) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityCritical:
		return PriorityCritical, nil
	}
	return "", fmt.Errorf("unknown ticket priority %q", s)
}

func ParseTicketType(s string) (TicketType, error) {
	switch TicketType(strings.ToLower(s)) {
	case TypeBug:
		return TypeBug, nil
	case TypeTask:
		return TypeTask, nil
	case TypeFeature:
		return TypeFeature, nil
	}
	return "", fmt.Errorf("unknown ticket type %q", s)
}

type Ticket struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Status      TicketStatus   `gorm:"not null;default:backlog;index"`
	Priority    TicketPriority `gorm:"not null;default:medium"`
	Type        TicketType     `gorm:"not null;default:bug"`
	ProjectID   uint           `gorm:"not null;index"`
	AssigneeID  *uint

	// Relationships
	Project     Project      `gorm:"foreignKey:ProjectID"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID"`
	Comments    []Comment    `gorm:"foreignKey:TicketID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Attachments []Attachment `gorm:"foreignKey:TicketID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
