package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aspira/internal/model"
)

// ReactionRepository defines reaction persistence operations. The toggle flow
// runs inside WithTransaction so the lookup and the following write are atomic
// per (post, user) pair.
type ReactionRepository interface {
	FindByPostAndUserForUpdate(ctx context.Context, postID, userID uint) (*model.Reaction, error)
	Create(ctx context.Context, reaction *model.Reaction) error
	UpdateType(ctx context.Context, id uint, reactionType string) error
	Delete(ctx context.Context, id uint) error
	ListByPost(ctx context.Context, postID uint) ([]model.Reaction, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReactionRepository) error) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository builds a GORM-backed repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// FindByPostAndUserForUpdate locks the existing reaction row for the rest of
// the surrounding transaction.
func (r *reactionRepository) FindByPostAndUserForUpdate(ctx context.Context, postID, userID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *model.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdateType(ctx context.Context, id uint, reactionType string) error {
	return r.db.WithContext(ctx).Model(&model.Reaction{}).Where("id = ?", id).
		Update("reaction_type", reactionType).Error
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Reaction{}, id).Error
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint) ([]model.Reaction, error) {
	var reactions []model.Reaction
	if err := r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID).
		Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// WithTransaction executes fn with a repository bound to a transaction.
func (r *reactionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReactionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &reactionRepository{db: tx})
	})
}
