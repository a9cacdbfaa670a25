package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apperrors "forum/internal/errors"
	"forum/internal/model"
	"forum/internal/repository"
)

const (
	maxTitleLength = 100
	maxTagsLength  = 100
	// MaxPageSize bounds an explicit listing limit.
	MaxPageSize = 100
)

// Page selects a window of the post listing. A zero Limit returns every post.
type Page struct {
	Limit  int
	Offset int
}

// PostService handles post listing, creation and upvoting.
type PostService interface {
	List(ctx context.Context, page Page) ([]model.Post, error)
	Create(ctx context.Context, title, content, tags string) (*model.Post, error)
	Upvote(ctx context.Context, id uint) (*model.Post, error)
}

type postService struct {
	posts repository.PostRepository
	log   logrus.FieldLogger
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, log logrus.FieldLogger) PostService {
	return &postService{posts: posts, log: log}
}

// List returns posts in insertion order.
func (s *postService) List(ctx context.Context, page Page) ([]model.Post, error) {
	if page.Limit < 0 || page.Limit > MaxPageSize {
		return nil, apperrors.Validation(fmt.Sprintf("limit must be between 0 and %d", MaxPageSize))
	}
	if page.Offset < 0 {
		return nil, apperrors.Validation("offset must not be negative")
	}

	posts, err := s.posts.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	s.log.WithField("count", len(posts)).Debug("fetched posts")
	return posts, nil
}

// Create stores a new post with zero upvotes.
func (s *postService) Create(ctx context.Context, title, content, tags string) (*model.Post, error) {
	switch {
	case strings.TrimSpace(title) == "":
		return nil, apperrors.Validation("title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return nil, apperrors.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	case strings.TrimSpace(content) == "":
		return nil, apperrors.Validation("content is required")
	case utf8.RuneCountInString(tags) > maxTagsLength:
		return nil, apperrors.Validation(fmt.Sprintf("tags must be at most %d characters", maxTagsLength))
	}

	post := &model.Post{
		Title:   title,
		Content: content,
		Tags:    tags,
		Upvotes: 0,
	}

	err := s.posts.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PostRepository) error {
		return txRepo.Create(ctx, post)
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.WithFields(logrus.Fields{"post_id": post.ID, "title": post.Title}).Info("post created")
	return post, nil
}

// Upvote increments the counter of a post by exactly one and returns the post.
func (s *postService) Upvote(ctx context.Context, id uint) (*model.Post, error) {
	found, err := s.posts.IncrementUpvotes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upvote post %d: %w", id, err)
	}
	if !found {
		s.log.WithField("post_id", id).Warn("upvote of non-existent post")
		return nil, apperrors.ErrPostNotFound
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{"post_id": id, "upvotes": post.Upvotes}).Info("post upvoted")
	return post, nil
}
