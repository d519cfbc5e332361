package service

import (
	"context"
	"strings"
	"testing"

	"moneta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCreateComment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 3
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Content: "Congrats!", ProfileID: 2, PostID: 1}, nil
		}

		svc := NewCommentService(repo, noopPostRepo(), nil, nil)
		comment, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1, Content: "Congrats!"})
		require.NoError(t, err)
		assert.Equal(t, uint(3), comment.ID)
	})

	t.Run("Anonymous Rejected", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 0, PostID: 1, Content: "hi"})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "AUTH_REQUIRED", appErr.Code)
	})

	t.Run("Empty Content", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Content is required")
	})

	t.Run("Too Long", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1, Content: strings.Repeat("a", 2001)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Comment too long")
	})

	t.Run("Post Not Found", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), postRepo, nil, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 42, Content: "hi"})
		assert.Error(t, err)
	})

	t.Run("Parent From Different Post Rejected", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 99}, nil
		}
		parentID := uint(5)
		svc := NewCommentService(repo, noopPostRepo(), nil, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1, Content: "hi", ParentCommentID: &parentID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "different post")
	})
}

func TestUpdateComment_OwnershipEnforced(t *testing.T) {
	repo := noopCommentRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, ProfileID: 99, PostID: 1, Content: "original"}, nil
	}

	svc := NewCommentService(repo, noopPostRepo(), nil, nil)
	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{ProfileID: 2, PostID: 1, CommentID: 1, Content: "edited"})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestDeleteComment(t *testing.T) {
	t.Run("Owner Deletes", func(t *testing.T) {
		deleted := false
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ProfileID: 2, PostID: 1}, nil
		}
		repo.deleteFn = func(_ context.Context, _ uint) error { deleted = true; return nil }

		svc := NewCommentService(repo, noopPostRepo(), nil, nil)
		comment, err := svc.DeleteComment(context.Background(), DeleteCommentInput{ProfileID: 2, PostID: 1, CommentID: 1})
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, uint(1), comment.ID)
	})

	t.Run("Non Owner Without Admin", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ProfileID: 99, PostID: 1}, nil
		}

		svc := NewCommentService(repo, noopPostRepo(), func(_ context.Context, _ uint) (bool, error) { return false, nil }, nil)
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{ProfileID: 2, PostID: 1, CommentID: 1})
		assert.Error(t, err)
	})

	t.Run("Admin Override", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ProfileID: 99, PostID: 1}, nil
		}

		svc := NewCommentService(repo, noopPostRepo(), func(_ context.Context, _ uint) (bool, error) { return true, nil }, nil)
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{ProfileID: 2, PostID: 1, CommentID: 1})
		assert.NoError(t, err)
	})
}

func TestListComments_PrivacyOnPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, ProfileID: 9, PrivacyLevel: models.PrivacyPrivate}, nil
	}

	svc := NewCommentService(noopCommentRepo(), postRepo, nil, nil)
	_, err := svc.ListComments(context.Background(), 1, 2)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// The owner still reads their own thread.
	_, err = svc.ListComments(context.Background(), 1, 9)
	assert.NoError(t, err)
}

func TestCreateComment_FollowersOnlyPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, ProfileID: 9, PrivacyLevel: models.PrivacyFollowersOnly}, nil
	}

	stranger := func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
	svc := NewCommentService(noopCommentRepo(), postRepo, nil, stranger)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1, Content: "hi"})
	require.Error(t, err)

	follower := func(_ context.Context, followerID, followingID uint) (bool, error) {
		return followerID == 2 && followingID == 9, nil
	}
	svc = NewCommentService(noopCommentRepo(), postRepo, nil, follower)
	_, err = svc.CreateComment(context.Background(), CreateCommentInput{ProfileID: 2, PostID: 1, Content: "hi"})
	assert.NoError(t, err)
}

func TestUpdateComment_PostMismatchRejected(t *testing.T) {
	repo := noopCommentRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, ProfileID: 2, PostID: 7, Content: "original"}, nil
	}

	svc := NewCommentService(repo, noopPostRepo(), nil, nil)
	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{ProfileID: 2, PostID: 999, CommentID: 1, Content: "edited"})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDeleteComment_PostMismatchRejected(t *testing.T) {
	deleted := false
	repo := noopCommentRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, ProfileID: 2, PostID: 7}, nil
	}
	repo.deleteFn = func(_ context.Context, _ uint) error { deleted = true; return nil }

	svc := NewCommentService(repo, noopPostRepo(), nil, nil)
	_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{ProfileID: 2, PostID: 999, CommentID: 1})
	require.Error(t, err)
	assert.False(t, deleted)
}
