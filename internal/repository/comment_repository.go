package repository

import (
	"context"

	"gorm.io/gorm"

	"aspira/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository builds a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// List returns all comments, newest first.
func (r *commentRepository) List(ctx context.Context) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
