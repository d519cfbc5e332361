// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"moneta/internal/middleware"
	"moneta/internal/models"
	"moneta/internal/repository"
	"moneta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)

	var req struct {
		Title        string            `json:"title"`
		Description  string            `json:"description"`
		PostType     string            `json:"post_type"`
		PrivacyLevel string            `json:"privacy_level"`
		SharedData   models.SharedData `json:"shared_data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		ProfileID:    profileID,
		Title:        req.Title,
		Description:  req.Description,
		PostType:     req.PostType,
		PrivacyLevel: req.PrivacyLevel,
		SharedData:   req.SharedData,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/feed?scope=personal|public
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalProfileID(c)

	scope := c.Query("scope", repository.FeedScopePublic)

	posts, err := s.postService.ListFeed(ctx, service.ListFeedInput{
		Scope:    scope,
		ViewerID: viewerID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	middleware.FeedRefreshes.WithLabelValues(scope).Inc()

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalProfileID(c)

	post, err := s.postService.GetPost(ctx, id, viewerID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(post)
}

// GetProfilePosts handles GET /api/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	viewerID := c.Locals("profileID").(uint)

	posts, err := s.postService.GetProfilePosts(ctx, profileIDParam, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		PrivacyLevel string `json:"privacy_level"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		ProfileID:    profileID,
		PostID:       postID,
		Title:        req.Title,
		Description:  req.Description,
		PrivacyLevel: req.PrivacyLevel,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{
		ProfileID: profileID,
		PostID:    postID,
	}); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
// The endpoint toggles the like status - if already liked, it unlikes; if not
// liked, it likes. The response body is the post with fresh counters.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profileID := c.Locals("profileID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(ctx, profileID, postID)
	if err != nil {
		middleware.LikeToggles.WithLabelValues("error").Inc()
		return models.RespondWithError(c, statusForError(err), err)
	}

	outcome := "unliked"
	if post.UserHasLiked {
		outcome = "liked"
	}
	middleware.LikeToggles.WithLabelValues(outcome).Inc()

	return c.JSON(post)
}
