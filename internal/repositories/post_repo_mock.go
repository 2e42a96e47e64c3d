package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"blogapi/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository. It
// mirrors the query semantics of the GORM implementation so services can be
// tested without a database.
type MockPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	r.posts[post.ID] = *post
	return nil
}

// Update replaces an existing post.
func (r *MockPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return fmt.Errorf("post with ID %s for update: %w", post.ID, ErrNotFound)
	}
	post.UpdatedAt = time.Now()
	r.posts[post.ID] = *post
	return nil
}

// GetByID returns a post by ID, including soft-deleted ones.
func (r *MockPostRepository) GetByID(id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	return &post, nil
}

// GetBySlug returns a published, non-deleted post by slug.
func (r *MockPostRepository) GetBySlug(slug string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts {
		if post.Slug == slug && post.Status == models.StatusPublished && post.DeletedAt == nil {
			p := post
			return &p, nil
		}
	}
	return nil, fmt.Errorf("post with slug %s: %w", slug, ErrNotFound)
}

// SlugExists checks the slug against every post, soft-deleted included.
func (r *MockPostRepository) SlugExists(slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// List applies the same predicate composition as the GORM repository.
func (r *MockPostRepository) List(q PostQuery) ([]models.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Post
	for _, post := range r.posts {
		if post.DeletedAt != nil {
			continue
		}
		visible := post.Status == models.StatusPublished ||
			(q.ViewerID != "" && post.AuthorID == q.ViewerID)
		if !visible {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(post.Title), needle) &&
				!strings.Contains(strings.ToLower(post.Content), needle) {
				continue
			}
		}
		if q.Tag != "" && !post.Tags.Contains(q.Tag) {
			continue
		}
		matched = append(matched, post)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
