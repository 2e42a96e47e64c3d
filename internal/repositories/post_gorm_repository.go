package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("post with slug %s: %w", post.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Update persists all fields of an existing post.
func (r *GORMPostRepository) Update(post *models.Post) error {
	res := r.db.Save(post)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("post with slug %s: %w", post.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s for update: %w", post.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a post by ID, including soft-deleted ones.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// GetBySlug retrieves a published, non-deleted post by its slug. Drafts are
// never served through this path, not even to their author.
func (r *GORMPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Where("slug = ? AND status = ? AND deleted_at IS NULL", slug, models.StatusPublished).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by slug %s: %w", slug, err)
	}
	return &post, nil
}

// SlugExists reports whether any post, active or soft-deleted, already
// claims the given slug.
func (r *GORMPostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// List executes the visibility-aware listing query. Predicates compose as
// base AND visibility AND search AND tag; the search OR-group is never
// merged into the visibility OR-group.
func (r *GORMPostRepository) List(q PostQuery) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Where("deleted_at IS NULL")

	if q.ViewerID != "" {
		// Authenticated: published posts plus the viewer's own drafts.
		query = query.Where("(status = ? OR author_id = ?)", models.StatusPublished, q.ViewerID)
	} else {
		// Anonymous: published only.
		query = query.Where("status = ?", models.StatusPublished)
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}

	if q.Tag != "" {
		// Tags are stored JSON-encoded, so an element match is a substring
		// match against the tag's encoded form (quotes included). LIKE
		// metacharacters in the tag are escaped so user input cannot act
		// as a wildcard.
		encoded, err := json.Marshal(q.Tag)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		query = query.Where(`tags LIKE ? ESCAPE '\'`, "%"+escapeLike(string(encoded))+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	var posts []models.Post
	err := query.
		Order("created_at ASC").
		Offset(offset).
		Limit(q.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}
