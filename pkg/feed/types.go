// Package feed is the client-side SDK for the moneta social feed. It keeps a
// local cache of posts and comments, applies interactions optimistically, and
// reconciles the cache against the remote store's outcomes.
package feed

import "time"

// Scope selects which feed a session refreshes.
type Scope string

const (
	// ScopePersonal is the viewer's own posts plus posts from followed profiles.
	ScopePersonal Scope = "personal"
	// ScopePublic is every post with public privacy, regardless of authorship.
	ScopePublic Scope = "public"
)

func (s Scope) valid() bool {
	return s == ScopePersonal || s == ScopePublic
}

// ProfileSummary is the author info embedded in posts and comments.
type ProfileSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Post mirrors a feed post as the API serves it, including the per-viewer
// like flag and the interaction counts.
type Post struct {
	ID                  uint           `json:"id"`
	ProfileID           uint           `json:"profile_id"`
	Profile             ProfileSummary `json:"profile"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	PostType            string         `json:"post_type"`
	SharedData          map[string]any `json:"shared_data,omitempty"`
	PrivacyLevel        string         `json:"privacy_level"`
	SourceTransactionID *uint          `json:"source_transaction_id,omitempty"`
	LikeCount           int            `json:"like_count"`
	CommentCount        int            `json:"comment_count"`
	UserHasLiked        bool           `json:"user_has_liked"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Comment mirrors a post comment as the API serves it.
type Comment struct {
	ID              uint           `json:"id"`
	PostID          uint           `json:"post_id"`
	ProfileID       uint           `json:"profile_id"`
	Content         string         `json:"content"`
	ParentCommentID *uint          `json:"parent_comment_id,omitempty"`
	Profile         ProfileSummary `json:"profile"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PostInput is the payload for creating a post.
type PostInput struct {
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	PostType     string         `json:"post_type,omitempty"`
	PrivacyLevel string         `json:"privacy_level,omitempty"`
	SharedData   map[string]any `json:"shared_data,omitempty"`
}

// PostUpdate is the payload for a partial post update. Nil fields are left
// unchanged by the server.
type PostUpdate struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	PrivacyLevel *string `json:"privacy_level,omitempty"`
}

// CommentInput is the payload for creating a comment.
type CommentInput struct {
	Content         string `json:"content"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}
