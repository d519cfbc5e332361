package service

import (
	"context"

	"moneta/internal/models"
	"moneta/internal/repository"
)

type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

// FollowStats summarizes a profile's follow edges.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

func NewFollowService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) *FollowService {
	return &FollowService{followRepo: followRepo, profileRepo: profileRepo}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == 0 {
		return models.NewAuthRequiredError()
	}
	if followerID == followingID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.profileRepo.GetByID(ctx, followingID); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, followerID, followingID)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	if followerID == 0 {
		return models.NewAuthRequiredError()
	}
	return s.followRepo.Unfollow(ctx, followerID, followingID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followingID)
}

func (s *FollowService) ListFollowing(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, profileID, limit, offset)
}

func (s *FollowService) ListFollowers(ctx context.Context, profileID uint, limit, offset int) ([]models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, profileID, limit, offset)
}

func (s *FollowService) Stats(ctx context.Context, profileID uint) (*FollowStats, error) {
	followers, err := s.followRepo.CountFollowers(ctx, profileID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &FollowStats{Followers: followers, Following: following}, nil
}
