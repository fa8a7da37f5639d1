package models

import "gorm.io/gorm"

type Attachment struct {
	gorm.Model

	FileName string `gorm:"not null"`
	FileURL  string `gorm:"not null"`
	TicketID uint   `gorm:"not null;index"`

	// Relationships
	Ticket Ticket `gorm:"foreignKey:TicketID"`
}
