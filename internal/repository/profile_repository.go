package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aspira/internal/model"
)

// ProfileRepository defines profile persistence operations, including the
// atomic verification-token consume.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	FindByNIM(ctx context.Context, nim string) (*model.Profile, error)
	FindByConsumedToken(ctx context.Context, token string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	// ConsumeToken marks the profile holding token as verified and clears the
	// active token, all inside one transaction. Returns gorm.ErrRecordNotFound
	// when no profile holds the token.
	ConsumeToken(ctx context.Context, token string) (*model.Profile, error)
	// RotateToken replaces the active verification token for a profile.
	RotateToken(ctx context.Context, profileID uint, token string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository builds a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByNIM(ctx context.Context, nim string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByConsumedToken(ctx context.Context, token string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("consumed_token = ?", token).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) ConsumeToken(ctx context.Context, token string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock so two concurrent verify calls cannot both consume.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email_verification_token = ?", token).
			First(&profile).Error; err != nil {
			return err
		}
		consumed := token
		profile.IsEmailVerified = true
		profile.ConsumedToken = &consumed
		profile.EmailVerificationToken = nil
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) RotateToken(ctx context.Context, profileID uint, token string) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profileID).
		Update("email_verification_token", token).Error
}
