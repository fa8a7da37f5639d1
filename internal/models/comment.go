package models

import "gorm.io/gorm"

// Comment nodes form a reply forest per ticket: root comments have no
// ParentID, replies point at another comment on the same ticket.
type Comment struct {
	gorm.Model

	Content  string `gorm:"not null"`
	TicketID uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null"`
	ParentID *uint  `gorm:"index"`

	// Relationships
	Ticket  Ticket    `gorm:"foreignKey:TicketID"`
	Author  User      `gorm:"foreignKey:AuthorID"`
	Replies []Comment `gorm:"foreignKey:ParentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
