// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"moneta/internal/cache"
	"moneta/internal/models"

	"gorm.io/gorm"
)

// Feed scopes. Personal shows the viewer's own posts plus posts from profiles
// they follow; public shows only public posts.
const (
	FeedScopePersonal = "personal"
	FeedScopePublic   = "public"
)

// PostRepository defines the interface for feed post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetByProfileID(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	ListFeed(ctx context.Context, scope string, viewerID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, profileID, postID uint) (bool, error)
	GetLikedPostIDs(ctx context.Context, profileID uint, postIDs []uint) ([]uint, error)
	Like(ctx context.Context, profileID, postID uint) error
	Unlike(ctx context.Context, profileID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id, viewerID)

	var err error
	if viewerID == 0 {
		err = cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("Profile").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("Profile").
			First(&post, id).Error
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByProfileID(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Profile").
		Where("feed_posts.profile_id = ?", profileID)
	if viewerID != profileID {
		q = q.Where("feed_posts.privacy_level = ?", models.PrivacyPublic)
	}
	err := q.Order("feed_posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListFeed(ctx context.Context, scope string, viewerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Profile")

	switch scope {
	case FeedScopePersonal:
		// Own posts at any privacy level, followed profiles' posts unless private.
		base = base.Where(
			"feed_posts.profile_id = ? OR (feed_posts.profile_id IN (SELECT following_id FROM followers WHERE follower_id = ?) AND feed_posts.privacy_level IN ?)",
			viewerID,
			viewerID,
			[]models.PrivacyLevel{models.PrivacyPublic, models.PrivacyFollowersOnly},
		)
	default:
		base = base.Where("feed_posts.privacy_level = ?", models.PrivacyPublic)
	}

	err := base.Order("feed_posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "feed_posts.*, " +
		"(SELECT COUNT(*) FROM post_comments WHERE post_comments.post_id = feed_posts.id AND post_comments.deleted_at IS NULL) as comment_count, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = feed_posts.id) as like_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = feed_posts.id AND post_likes.profile_id = ?) as user_has_liked", viewerID)
	}

	return db.Select(selectQuery + ", false as user_has_liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateFeeds(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeeds(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) GetLikedPostIDs(ctx context.Context, profileID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var likedPostIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND post_id IN ?", profileID, postIDs).
		Pluck("post_id", &likedPostIDs).Error
	return likedPostIDs, err
}

func (r *postRepository) Like(ctx context.Context, profileID, postID uint) error {
	// Use INSERT ... ON CONFLICT DO NOTHING to handle race conditions
	// This is atomic and prevents duplicate key errors
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO post_likes (profile_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (profile_id, post_id) DO NOTHING`,
		profileID, postID,
	)
	if result.Error == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return result.Error
}

func (r *postRepository) Unlike(ctx context.Context, profileID, postID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().Where("profile_id = ? AND post_id = ?", profileID, postID).Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}
