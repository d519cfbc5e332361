package models

import (
	"time"
)

// Follower is a directed follow edge between two profiles.
// FollowerID follows FollowingID; the pair is unique.
type Follower struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	FollowerProfile  Profile `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	FollowingProfile Profile `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}
