package repository

import (
	"context"

	"gorm.io/gorm"

	"forum/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, limit, offset int) ([]model.Post, error)
	IncrementUpvotes(ctx context.Context, id uint) (bool, error)
	// WithTransaction runs fn against a repository bound to a single transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts in insertion order. A limit of 0 means no limit.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	posts := make([]model.Post, 0)
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementUpvotes adds one to the counter in a single UPDATE statement.
// It reports false when no post has the given id.
func (r *postRepository) IncrementUpvotes(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("upvotes + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// WithTransaction executes a function within a database transaction.
func (r *postRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &postRepository{db: tx})
	})
}
