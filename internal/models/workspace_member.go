package models

import "time"

// WorkspaceMember joins users to workspaces they collaborate in. The
// composite primary key makes a concurrent double-add fail at commit
// instead of inserting a duplicate row.
type WorkspaceMember struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false"`
	WorkspaceID uint      `gorm:"primaryKey;autoIncrement:false"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`

	// Relationships
	User      User      `gorm:"foreignKey:UserID"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
