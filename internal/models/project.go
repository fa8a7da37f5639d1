package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	ImageURL    string
	WorkspaceID uint `gorm:"not null;index"`

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID"`
	Tickets   []Ticket  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
