// Package service contains business logic between handlers and repositories.
package service

import (
	"context"

	"moneta/internal/cache"
	"moneta/internal/models"
	"moneta/internal/repository"
)

type PostService struct {
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, profileID uint) (bool, error)
	isFollowing func(ctx context.Context, followerID, followingID uint) (bool, error)
}

type CreatePostInput struct {
	ProfileID    uint
	Title        string
	Description  string
	PostType     string
	PrivacyLevel string
	SharedData   models.SharedData
}

type ListFeedInput struct {
	Scope    string
	ViewerID uint
	Limit    int
	Offset   int
}

type UpdatePostInput struct {
	ProfileID    uint
	PostID       uint
	Title        string
	Description  string
	PrivacyLevel string
}

type DeletePostInput struct {
	ProfileID uint
	PostID    uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, profileID uint) (bool, error),
	isFollowing func(ctx context.Context, followerID, followingID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		isAdmin:     isAdmin,
		isFollowing: isFollowing,
	}
}

// authorizePostView enforces privacy_level on direct post reads. The feed
// and profile listings filter in SQL; deep links land here. Denials read as
// not-found so restricted posts do not leak their existence.
func authorizePostView(
	ctx context.Context,
	post *models.Post,
	viewerID uint,
	isFollowing func(ctx context.Context, followerID, followingID uint) (bool, error),
) error {
	if post.ProfileID == viewerID {
		return nil
	}
	switch post.PrivacyLevel {
	case models.PrivacyPrivate:
		return models.NewNotFoundError("Post", post.ID)
	case models.PrivacyFollowersOnly:
		if viewerID != 0 && isFollowing != nil {
			following, err := isFollowing(ctx, viewerID, post.ProfileID)
			if err != nil {
				return err
			}
			if following {
				return nil
			}
		}
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	postType := models.PostType(in.PostType)
	if postType == "" {
		postType = models.PostTypeManual
	}
	if !models.ValidPostType(postType) {
		return nil, models.NewValidationError("Invalid post_type")
	}

	privacy := models.PrivacyLevel(in.PrivacyLevel)
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	if !models.ValidPrivacyLevel(privacy) {
		return nil, models.NewValidationError("Invalid privacy_level")
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}

	// Only generated post types carry a shared data payload.
	if postType == models.PostTypeManual && len(in.SharedData) > 0 {
		return nil, models.NewValidationError("shared_data is not allowed on manual posts")
	}
	if (postType == models.PostTypeAchievement || postType == models.PostTypeMetricSnapshot) && len(in.SharedData) == 0 {
		return nil, models.NewValidationError("shared_data is required for this post_type")
	}

	post := &models.Post{
		ProfileID:    in.ProfileID,
		Title:        in.Title,
		Description:  in.Description,
		PostType:     postType,
		PrivacyLevel: privacy,
		SharedData:   in.SharedData,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.ProfileID)
}

func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Post, error) {
	scope := in.Scope
	if scope == "" {
		scope = repository.FeedScopePublic
	}
	if scope != repository.FeedScopePersonal && scope != repository.FeedScopePublic {
		return nil, models.NewValidationError("Invalid feed scope")
	}
	if scope == repository.FeedScopePersonal && in.ViewerID == 0 {
		return nil, models.NewAuthRequiredError()
	}

	var posts []*models.Post
	var err error

	if scope == repository.FeedScopePublic && in.Offset == 0 && in.Limit <= 20 {
		// The first public feed page is hot; cache it viewer-agnostic and
		// re-apply the viewer's liked status afterwards.
		key := cache.FeedKey(scope, 0, 1, in.Limit)
		err = cache.Aside(ctx, key, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListFeed(ctx, scope, 0, in.Limit, in.Offset)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		if in.ViewerID != 0 && len(posts) > 0 {
			postIDs := make([]uint, len(posts))
			for i, p := range posts {
				postIDs[i] = p.ID
			}

			likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, in.ViewerID, postIDs)
			if err == nil {
				likedMap := make(map[uint]bool, len(likedIDs))
				for _, id := range likedIDs {
					likedMap[id] = true
				}
				for _, p := range posts {
					p.UserHasLiked = likedMap[p.ID]
				}
			}
		}
		return posts, nil
	}

	return s.postRepo.ListFeed(ctx, scope, in.ViewerID, in.Limit, in.Offset)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := authorizePostView(ctx, post, viewerID, s.isFollowing); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetProfilePosts(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByProfileID(ctx, profileID, limit, offset, viewerID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if post.ProfileID != in.ProfileID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = in.Title
	}
	if in.Description != "" {
		if len(in.Description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 10000 characters)")
		}
		post.Description = in.Description
	}
	if in.PrivacyLevel != "" {
		privacy := models.PrivacyLevel(in.PrivacyLevel)
		if !models.ValidPrivacyLevel(privacy) {
			return nil, models.NewValidationError("Invalid privacy_level")
		}
		post.PrivacyLevel = privacy
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.ProfileID)
	if err != nil {
		return err
	}

	if post.ProfileID != in.ProfileID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.ProfileID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the caller's like on a post and returns the post with
// fresh counts. Both directions are idempotent at the repository level, so a
// concurrent double toggle cannot over-count.
func (s *PostService) ToggleLike(ctx context.Context, profileID, postID uint) (*models.Post, error) {
	if profileID == 0 {
		return nil, models.NewAuthRequiredError()
	}

	isLiked, err := s.postRepo.IsLiked(ctx, profileID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, profileID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Like(ctx, profileID, postID); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, postID, profileID)
}
