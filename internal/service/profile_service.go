package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"aspira/internal/cache"
	apperrors "aspira/internal/errors"
	"aspira/internal/model"
	"aspira/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ProfileUpdate carries the mutable profile fields for a partial update.
// NIM is an immutable business key and is deliberately absent.
type ProfileUpdate struct {
	FullName    *string
	PhoneNumber *string
	Jurusan     *string
	Angkatan    *int
}

// ProfileService reads and partially updates the authenticated user's profile.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, userID uint, patch ProfileUpdate) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	cache       *cache.Client
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(profileRepo repository.ProfileRepository, cache *cache.Client) ProfileService {
	return &profileService{profileRepo: profileRepo, cache: cache}
}

func (s *profileService) cacheKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

func (s *profileService) Get(ctx context.Context, userID uint) (*model.Profile, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, profileCacheTTL)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uint, patch ProfileUpdate) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if patch.FullName != nil {
		profile.FullName = *patch.FullName
	}
	if patch.PhoneNumber != nil {
		profile.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Jurusan != nil {
		profile.Jurusan = *patch.Jurusan
	}
	if patch.Angkatan != nil {
		profile.Angkatan = *patch.Angkatan
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return profile, nil
}
