package handlers

import (
	"errors"
	"log"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repositories"
	"blogapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	postService *services.PostService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, authService *services.AuthService) *PostHandler {
	return &PostHandler{
		postService: postService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the post routes with the Fiber app. Listing is
// public with optional identity; writes require authentication.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", middleware.AuthOptional(h.authService), h.HandleListPosts)
	postRoutes.Get("/:slug", h.HandleGetPostBySlug)
	postRoutes.Post("/", middleware.AuthRequired(h.authService), h.HandleCreatePost)
	postRoutes.Put("/:id", middleware.AuthRequired(h.authService), h.HandleUpdatePost)
	postRoutes.Delete("/:id", middleware.AuthRequired(h.authService), h.HandleDeletePost)
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title   string      `json:"title" validate:"required,min=1,max=255"`
	Content string      `json:"content" validate:"required"`
	Tags    models.Tags `json:"tags"`
	Status  string      `json:"status" validate:"omitempty,oneof=draft published"`
}

// UpdatePostRequest represents a partial post update. Omitted fields are
// left unchanged; the author can never be reassigned.
type UpdatePostRequest struct {
	Title   *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string      `json:"content" validate:"omitempty,min=1"`
	Tags    *models.Tags `json:"tags"`
	Status  *string      `json:"status" validate:"omitempty,oneof=draft published"`
}

// HandleListPosts serves the public listing with search, tag filtering and
// pagination. An authenticated caller also sees their own drafts.
func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	query := repositories.PostQuery{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}
	if user, ok := middleware.CurrentUser(c); ok {
		query.ViewerID = user.ID
	}

	page, err := h.postService.ListPosts(query)
	if err != nil {
		log.Printf("Error listing posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve posts",
		})
	}
	return c.JSON(page)
}

// HandleGetPostBySlug serves a single published post.
func (h *PostHandler) HandleGetPostBySlug(c *fiber.Ctx) error {
	post, err := h.postService.GetPostBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Post not found",
			})
		}
		log.Printf("Error getting post by slug %s: %v", c.Params("slug"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve post",
		})
	}
	return c.JSON(post)
}

// HandleCreatePost creates a new post for the authenticated caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create post body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Status:   req.Status,
		AuthorID: user.ID,
	}
	created, err := h.postService.CreatePost(post)
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not create post",
				"error":   err.Error(),
			})
		}
		log.Printf("Error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdatePost merges the provided fields into an existing post. Only
// the original author may update it.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update post body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	updated, err := h.postService.UpdatePost(c.Params("id"), user.ID, services.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		Tags:    req.Tags,
	})
	if err != nil {
		return h.postErrorResponse(c, "update", err)
	}

	return c.JSON(updated)
}

// HandleDeletePost soft-deletes a post. Only the original author may delete
// it; the record itself is never removed.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}

	if err := h.postService.DeletePost(c.Params("id"), user.ID); err != nil {
		return h.postErrorResponse(c, "delete", err)
	}

	return c.JSON(fiber.Map{
		"message": "Post soft-deleted",
	})
}

// postErrorResponse translates service errors from post mutations into
// HTTP responses.
func (h *PostHandler) postErrorResponse(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Post not found",
		})
	case errors.Is(err, services.ErrNotPostAuthor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized to " + op + " this post",
		})
	case errors.Is(err, services.ErrSlugTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not " + op + " post",
			"error":   err.Error(),
		})
	default:
		log.Printf("Error during post %s: %v", op, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not " + op + " post",
		})
	}
}
