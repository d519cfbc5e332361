package service

import (
	"context"
	"testing"

	"moneta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn         func(context.Context, uint, uint) error
	unfollowFn       func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	listFollowingFn  func(context.Context, uint, int, int) ([]models.Profile, error)
	listFollowersFn  func(context.Context, uint, int, int) ([]models.Profile, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Follow(ctx context.Context, a, b uint) error { return s.followFn(ctx, a, b) }
func (s *followRepoStub) Unfollow(ctx context.Context, a, b uint) error {
	return s.unfollowFn(ctx, a, b)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.isFollowingFn(ctx, a, b)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, id uint, limit, offset int) ([]models.Profile, error) {
	return s.listFollowingFn(ctx, id, limit, offset)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, id uint, limit, offset int) ([]models.Profile, error) {
	return s.listFollowersFn(ctx, id, limit, offset)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, id uint) (int64, error) {
	return s.countFollowersFn(ctx, id)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, id uint) (int64, error) {
	return s.countFollowingFn(ctx, id)
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Profile, error)
	getByEmailFn func(context.Context, string) (*models.Profile, error)
	getBySlugFn  func(context.Context, string) (*models.Profile, error)
	createFn     func(context.Context, *models.Profile) error
	updateFn     func(context.Context, *models.Profile) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, int, int) ([]models.Profile, error)
	searchFn     func(context.Context, string, int, int) ([]models.Profile, error)
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *profileRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *profileRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.Profile, error) {
	return s.searchFn(ctx, q, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:         func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:       func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listFollowingFn:  func(_ context.Context, _ uint, _, _ int) ([]models.Profile, error) { return nil, nil },
		listFollowersFn:  func(_ context.Context, _ uint, _, _ int) ([]models.Profile, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.Profile, error) { return &models.Profile{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.Profile, error) { return nil, nil },
		getBySlugFn:  func(_ context.Context, _ string) (*models.Profile, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.Profile) error { return nil },
		updateFn:     func(_ context.Context, _ *models.Profile) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.Profile, error) { return nil, nil },
		searchFn:     func(_ context.Context, _ string, _, _ int) ([]models.Profile, error) { return nil, nil },
	}
}

func TestFollow(t *testing.T) {
	t.Run("Cannot Follow Self", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopProfileRepo())
		err := svc.Follow(context.Background(), 1, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot follow yourself")
	})

	t.Run("Anonymous Rejected", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopProfileRepo())
		err := svc.Follow(context.Background(), 0, 2)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "AUTH_REQUIRED", appErr.Code)
	})

	t.Run("Target Must Exist", func(t *testing.T) {
		profileRepo := noopProfileRepo()
		profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		svc := NewFollowService(noopFollowRepo(), profileRepo)
		err := svc.Follow(context.Background(), 1, 99)
		assert.Error(t, err)
	})

	t.Run("Success", func(t *testing.T) {
		followed := false
		followRepo := noopFollowRepo()
		followRepo.followFn = func(_ context.Context, followerID, followingID uint) error {
			assert.Equal(t, uint(1), followerID)
			assert.Equal(t, uint(2), followingID)
			followed = true
			return nil
		}
		svc := NewFollowService(followRepo, noopProfileRepo())
		require.NoError(t, svc.Follow(context.Background(), 1, 2))
		assert.True(t, followed)
	})
}

func TestFollowStats(t *testing.T) {
	followRepo := noopFollowRepo()
	followRepo.countFollowersFn = func(_ context.Context, _ uint) (int64, error) { return 12, nil }
	followRepo.countFollowingFn = func(_ context.Context, _ uint) (int64, error) { return 4, nil }

	svc := NewFollowService(followRepo, noopProfileRepo())
	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Followers)
	assert.Equal(t, int64(4), stats.Following)
}

func TestUpdateProfile_SlugRules(t *testing.T) {
	profileRepo := noopProfileRepo()
	profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, Slug: "ana"}, nil
	}

	svc := NewProfileService(profileRepo)

	t.Run("Invalid Slug", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ProfileID: 1, Slug: "Ana!"})
		assert.Error(t, err)
	})

	t.Run("Taken Slug", func(t *testing.T) {
		profileRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Profile, error) {
			return &models.Profile{ID: 99, Slug: slug}, nil
		}
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ProfileID: 1, Slug: "taken-slug"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already in use")
	})

	t.Run("Valid Slug", func(t *testing.T) {
		profileRepo.getBySlugFn = func(_ context.Context, _ string) (*models.Profile, error) { return nil, nil }
		profile, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ProfileID: 1, Slug: "ana-saves"})
		require.NoError(t, err)
		assert.Equal(t, "ana-saves", profile.Slug)
	})
}
