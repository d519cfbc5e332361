// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"moneta/internal/models"
	"moneta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchProfiles handles GET /api/profiles/search?q=...
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	q := strings.TrimSpace(c.Query("q"))
	page := parsePagination(c, 20)

	profiles, err := s.profileService.SearchProfiles(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profiles)
}

// GetProfiles handles GET /api/profiles
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 100)

	profiles, err := s.profileService.ListProfiles(ctx, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfileByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(profile)
}

// GetProfileBySlug handles GET /api/profiles/slug/:slug
func (s *Server) GetProfileBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	profile, err := s.profileService.GetProfileBySlug(c.Context(), slug)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profileID := c.Locals("profileID").(uint)

	profile, err := s.profileService.GetProfileByID(c.Context(), profileID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		Name      string `json:"name"`
		Nickname  string `json:"nickname"`
		Slug      string `json:"slug"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
		BannerURL string `json:"banner_url"`
		IsPublic  *bool  `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(ctx, service.UpdateProfileInput{
		ProfileID: profileID,
		Name:      req.Name,
		Nickname:  req.Nickname,
		Slug:      req.Slug,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		BannerURL: req.BannerURL,
		IsPublic:  req.IsPublic,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(profile)
}

// PromoteToAdmin handles POST /api/profiles/:id/promote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	ctx := c.UserContext()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, err := s.profileService.SetRole(ctx, targetID, "admin")
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Profile promoted to admin", "profile": target})
}

// DemoteFromAdmin handles POST /api/profiles/:id/demote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	ctx := c.UserContext()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if strings.EqualFold(s.config.Env, "development") && targetID == 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("cannot demote protected development root admin profile"))
	}

	target, err := s.profileService.SetRole(ctx, targetID, "user")
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Profile demoted from admin", "profile": target})
}
