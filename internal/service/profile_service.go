package service

import (
	"context"

	"moneta/internal/models"
	"moneta/internal/repository"
	"moneta/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type UpdateProfileInput struct {
	ProfileID uint
	Name      string
	Nickname  string
	Slug      string
	Bio       string
	AvatarURL string
	BannerURL string
	IsPublic  *bool
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit, offset int) ([]models.Profile, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.profileRepo.Search(ctx, query, limit, offset)
}

func (s *ProfileService) GetProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

func (s *ProfileService) GetProfileBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNotFoundError("Profile", slug)
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 100
	const maxBioLen = 500

	if in.Name != "" {
		if len(in.Name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		profile.Name = in.Name
	}
	if in.Nickname != "" {
		profile.Nickname = in.Nickname
	}
	if in.Slug != "" && in.Slug != profile.Slug {
		if err := validation.ValidateProfileSlug(in.Slug); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.profileRepo.GetBySlug(ctx, in.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Slug already in use")
		}
		profile.Slug = in.Slug
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		profile.AvatarURL = in.AvatarURL
	}
	if in.BannerURL != "" {
		profile.BannerURL = in.BannerURL
	}
	if in.IsPublic != nil {
		profile.IsPublic = *in.IsPublic
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *ProfileService) SetRole(ctx context.Context, targetID uint, role string) (*models.Profile, error) {
	if role != "user" && role != "admin" {
		return nil, models.NewValidationError("Invalid role")
	}

	profile, err := s.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	profile.Role = role
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// IsAdmin reports whether the profile has the admin role. Wired into
// services that allow admin overrides.
func (s *ProfileService) IsAdmin(ctx context.Context, profileID uint) (bool, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return false, err
	}
	return profile.IsAdmin(), nil
}
