// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PostType tags what kind of event a feed post shares.
type PostType string

const (
	// PostTypeManual is a free-form post written by the user.
	PostTypeManual PostType = "manual"
	// PostTypeAchievement marks a reached financial target.
	PostTypeAchievement PostType = "achievement"
	// PostTypeMetricSnapshot shares a point-in-time metric value.
	PostTypeMetricSnapshot PostType = "metric_snapshot"
	// PostTypeTransactionShare shares a single transaction into the feed.
	PostTypeTransactionShare PostType = "transaction_share"
)

// PrivacyLevel controls who can see a feed post.
type PrivacyLevel string

const (
	PrivacyPublic        PrivacyLevel = "public"
	PrivacyFollowersOnly PrivacyLevel = "followers_only"
	PrivacyPrivate       PrivacyLevel = "private"
)

// SharedData is the loosely-typed payload attached to shared financial
// events. Stored as a JSONB column.
type SharedData map[string]interface{}

// Value implements driver.Valuer for JSONB storage.
func (d SharedData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (d *SharedData) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("shared_data: unsupported column type")
	}
	return json.Unmarshal(raw, d)
}

// Post represents a feed post in the Moneta application.
type Post struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	ProfileID           uint         `gorm:"not null;index" json:"profile_id"`
	Profile             Profile      `gorm:"foreignKey:ProfileID" json:"profile"`
	Title               string       `gorm:"not null" json:"title"`
	Description         string       `gorm:"type:text" json:"description,omitempty"`
	PostType            PostType     `gorm:"type:varchar(20);not null;default:'manual'" json:"post_type"`
	SharedData          SharedData   `gorm:"type:jsonb" json:"shared_data,omitempty"`
	PrivacyLevel        PrivacyLevel `gorm:"type:varchar(20);not null;default:'public';index" json:"privacy_level"`
	SourceTransactionID *uint        `json:"source_transaction_id,omitempty"`
	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->" json:"like_count"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->" json:"comment_count"`
	// UserHasLiked indicates whether the requesting profile liked this post (computed)
	UserHasLiked bool           `gorm:"->" json:"user_has_liked"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName keeps the table name of the original schema.
func (Post) TableName() string {
	return "feed_posts"
}

// ValidPostType reports whether t is one of the known post types.
func ValidPostType(t PostType) bool {
	switch t {
	case PostTypeManual, PostTypeAchievement, PostTypeMetricSnapshot, PostTypeTransactionShare:
		return true
	}
	return false
}

// ValidPrivacyLevel reports whether l is one of the known privacy levels.
func ValidPrivacyLevel(l PrivacyLevel) bool {
	switch l {
	case PrivacyPublic, PrivacyFollowersOnly, PrivacyPrivate:
		return true
	}
	return false
}
