package models

import (
	"time"
)

// Like represents a profile's like on a post.
// The combination of ProfileID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_post_profile" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_profile" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Post    Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// TableName keeps the table name of the original schema.
func (Like) TableName() string {
	return "post_likes"
}
