package repositories

import "blogapi/internal/models"

// PostQuery carries the parameters for a listing query. ViewerID is empty
// for anonymous requests; when set, the viewer's own drafts are included
// alongside published posts.
type PostQuery struct {
	Search   string
	Tag      string
	ViewerID string
	Page     int
	Limit    int
}

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(post *models.Post) error
	Update(post *models.Post) error
	// GetByID includes soft-deleted posts; it is the direct lookup used by
	// ownership checks and administrative access.
	GetByID(id string) (*models.Post, error)
	// GetBySlug only matches published, non-deleted posts.
	GetBySlug(slug string) (*models.Post, error)
	// SlugExists checks slug uniqueness across all posts, including
	// soft-deleted ones.
	SlugExists(slug string) (bool, error)
	// List returns one page of posts plus the total matching count.
	List(q PostQuery) ([]models.Post, int64, error)
}
