// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"moneta/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowProfile handles POST /api/profiles/:id/follow
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(ctx, profileID, targetID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Following"})
}

// UnfollowProfile handles DELETE /api/profiles/:id/follow
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(ctx, profileID, targetID); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowing handles GET /api/profiles/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	profiles, err := s.followService.ListFollowing(ctx, profileID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profiles)
}

// GetFollowers handles GET /api/profiles/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	profiles, err := s.followService.ListFollowers(ctx, profileID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profiles)
}

// GetFollowStats handles GET /api/profiles/:id/follow-stats
func (s *Server) GetFollowStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.followService.Stats(ctx, profileID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(stats)
}
