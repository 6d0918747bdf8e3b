package repository

import (
	"context"

	"gorm.io/gorm"

	"aspira/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
	SetImage(ctx context.Context, id uint, objectName, url string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns all posts, newest first.
func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) SetImage(ctx context.Context, id uint, objectName, url string) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{"image_object": objectName, "image_url": url}).Error
}
