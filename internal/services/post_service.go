package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"blogapi/internal/models"
	"blogapi/internal/repositories"
	"blogapi/pkg/rabbitmq"

	"github.com/gosimple/slug"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PostUpdate carries the fields of a partial post update. Nil fields are
// left untouched; the author can never be changed.
type PostUpdate struct {
	Title   *string
	Content *string
	Status  *string
	Tags    *models.Tags
}

// PostPage is one page of listing results. Count is the number of records
// in this page (the shape existing clients consume); Total is the full
// matching count so callers can compute page counts.
type PostPage struct {
	Count int           `json:"count"`
	Page  int           `json:"page"`
	Total int64         `json:"total"`
	Data  []models.Post `json:"data"`
}

// PostService handles business logic for blog posts: ownership, slugs,
// soft-delete semantics and the visibility rules of listing.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	mqClient *rabbitmq.Client
}

// NewPostService creates a new PostService. mqClient may be nil, in which
// case no events are published.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		mqClient: mqClient,
	}
}

// CreatePost stores a new post for the given author. The slug is derived
// from the title and must be unique across all posts, soft-deleted included.
func (s *PostService) CreatePost(post *models.Post) (*models.Post, error) {
	if post.Status == "" {
		post.Status = models.StatusDraft
	}

	post.Slug = slug.Make(post.Title)
	taken, err := s.postRepo.SlugExists(post.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("slug '%s': %w", post.Slug, ErrSlugTaken)
	}

	if err := s.postRepo.Create(post); err != nil {
		// Concurrent creates with the same title can both pass SlugExists;
		// the loser hits the unique index instead.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("slug '%s': %w", post.Slug, ErrSlugTaken)
		}
		return nil, err
	}

	s.publishEvent("post.created", post)
	s.attachAuthor(post)
	return post, nil
}

// GetPostBySlug returns a published, non-deleted post. Drafts are not
// served through this path regardless of who asks.
func (s *PostService) GetPostBySlug(postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(postSlug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.attachAuthor(post)
	return post, nil
}

// GetPostByID returns a post by direct ID lookup, soft-deleted ones
// included.
func (s *PostService) GetPostByID(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.attachAuthor(post)
	return post, nil
}

// ListPosts runs the visibility-aware listing query and resolves each
// author to its reduced projection.
func (s *PostService) ListPosts(q repositories.PostQuery) (*PostPage, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	posts, total, err := s.postRepo.List(q)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	authors := make(map[string]*models.AuthorRef)
	for i := range posts {
		ref, ok := authors[posts[i].AuthorID]
		if !ok {
			ref = s.lookupAuthor(posts[i].AuthorID)
			authors[posts[i].AuthorID] = ref
		}
		posts[i].Author = ref
	}

	return &PostPage{
		Count: len(posts),
		Page:  q.Page,
		Total: total,
		Data:  posts,
	}, nil
}

// UpdatePost merges the provided fields into the stored post. Only the
// original author may update; the slug is re-derived only when the title
// actually changes.
func (s *PostService) UpdatePost(id, callerID string, upd PostUpdate) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.AuthorID != callerID {
		return nil, ErrNotPostAuthor
	}

	if upd.Title != nil && *upd.Title != post.Title {
		newSlug := slug.Make(*upd.Title)
		if newSlug != post.Slug {
			taken, err := s.postRepo.SlugExists(newSlug)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("slug '%s': %w", newSlug, ErrSlugTaken)
			}
			post.Slug = newSlug
		}
		post.Title = *upd.Title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.Status != nil {
		post.Status = *upd.Status
	}
	if upd.Tags != nil {
		post.Tags = *upd.Tags
	}

	if err := s.postRepo.Update(post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("slug '%s': %w", post.Slug, ErrSlugTaken)
		}
		return nil, err
	}

	s.attachAuthor(post)
	return post, nil
}

// DeletePost soft-deletes a post by stamping DeletedAt. The record is never
// removed, and an already-deleted post keeps its original timestamp.
func (s *PostService) DeletePost(id, callerID string) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != callerID {
		return ErrNotPostAuthor
	}

	if post.DeletedAt == nil {
		now := time.Now()
		post.DeletedAt = &now
		if err := s.postRepo.Update(post); err != nil {
			return err
		}
		s.publishEvent("post.deleted", post)
	}
	return nil
}

// attachAuthor resolves the post's author to the reduced projection.
func (s *PostService) attachAuthor(post *models.Post) {
	post.Author = s.lookupAuthor(post.AuthorID)
}

func (s *PostService) lookupAuthor(authorID string) *models.AuthorRef {
	user, err := s.userRepo.GetByID(authorID)
	if err != nil {
		log.Printf("Failed to resolve author %s: %v", authorID, err)
		return nil
	}
	return &models.AuthorRef{
		Name:  user.Name,
		Email: user.Email,
	}
}

func (s *PostService) publishEvent(eventType string, post *models.Post) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishPostEvent(eventType, map[string]interface{}{
		"post_id":   post.ID,
		"slug":      post.Slug,
		"author_id": post.AuthorID,
		"status":    post.Status,
	})
	if err != nil {
		// Eventing is best-effort; the write already succeeded.
		log.Printf("Failed to publish %s event for post %s: %v", eventType, post.ID, err)
	}
}
