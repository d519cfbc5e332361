// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the application-level user identity record. It doubles as the
// authentication subject: the JWT "sub" claim carries the profile ID.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Nickname  string         `json:"nickname,omitempty"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Bio       string         `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	BannerURL string         `json:"banner_url,omitempty"`
	IsPublic  bool           `gorm:"default:true" json:"is_public"`
	Role      string         `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProfileSummary is the author shape embedded in posts and comments.
type ProfileSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Summary returns the embeddable author view of the profile.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		Name:      p.Name,
		Nickname:  p.Nickname,
		AvatarURL: p.AvatarURL,
	}
}

// IsAdmin reports whether the profile has the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == "admin"
}
