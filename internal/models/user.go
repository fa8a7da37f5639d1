package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleDeveloper UserRole = "developer"
	RoleViewer    UserRole = "viewer"
	RoleMember    UserRole = "member"
)

type User struct {
	gorm.Model

	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	FullName     string
	Role         UserRole `gorm:"not null;default:member"`

	// Relationships
	OwnedWorkspaces []Workspace       `gorm:"foreignKey:OwnerID"`
	Memberships     []WorkspaceMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTickets []Ticket          `gorm:"foreignKey:AssigneeID"`
	Comments        []Comment         `gorm:"foreignKey:AuthorID"`
}
