package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aspira/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// TokenStoreInterface defines the interface for refresh token storage.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, username string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore handles storage and retrieval of refresh tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type refreshTokenRecord struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// StoreRefreshToken stores a refresh token record with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	payload, err := json.Marshal(refreshTokenRecord{UserID: userID, Username: username})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("refresh token not found")
	}

	var rec refreshTokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, "", fmt.Errorf("unmarshal token data: %w", err)
	}
	return rec.UserID, rec.Username, nil
}

// DeleteRefreshToken removes a refresh token, revoking it.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
