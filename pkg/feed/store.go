package feed

import "context"

// RemoteStore is the boundary to the backend. Client implements it over
// HTTP; tests implement it with function-field stubs.
type RemoteStore interface {
	// ListPosts returns the feed for the given scope, newest first.
	ListPosts(ctx context.Context, scope Scope) ([]Post, error)
	// GetPost returns a single post with the same shape as a feed entry.
	GetPost(ctx context.Context, postID uint) (*Post, error)
	CreatePost(ctx context.Context, in PostInput) (*Post, error)
	UpdatePost(ctx context.Context, postID uint, in PostUpdate) (*Post, error)
	DeletePost(ctx context.Context, postID uint) error
	// ToggleLike inserts or removes the viewer's like pair and returns the
	// re-read post.
	ToggleLike(ctx context.Context, postID uint) (*Post, error)
	// ListComments returns a post's comments ordered by creation time,
	// oldest first.
	ListComments(ctx context.Context, postID uint) ([]Comment, error)
	CreateComment(ctx context.Context, postID uint, in CommentInput) (*Comment, error)
	UpdateComment(ctx context.Context, postID, commentID uint, content string) (*Comment, error)
	DeleteComment(ctx context.Context, postID, commentID uint) error
}
