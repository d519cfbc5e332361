package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a feed post.
// ParentCommentID allows threading in the schema; listing is flat.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PostID          uint           `gorm:"not null;index" json:"post_id"`
	ProfileID       uint           `gorm:"not null" json:"profile_id"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint          `json:"parent_comment_id,omitempty"`
	Profile         Profile        `gorm:"foreignKey:ProfileID" json:"profile"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName keeps the table name of the original schema.
func (Comment) TableName() string {
	return "post_comments"
}
