package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"aspira/internal/cache"
	apperrors "aspira/internal/errors"
	"aspira/internal/logging"
	"aspira/internal/model"
	"aspira/internal/moderation"
	"aspira/internal/repository"
	"aspira/internal/storage"
)

const (
	feedCacheKey = "posts:feed"
	feedCacheTTL = 30 * time.Second
)

// PostService handles feed post operations. All content passes the moderation
// filter on create and update; mutations are owner-only.
type PostService interface {
	Create(ctx context.Context, userID uint, content string) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, userID, id uint, content string) (*model.Post, error)
	Delete(ctx context.Context, userID, id uint) error
	AttachImage(ctx context.Context, userID, id uint, fileName string, file io.Reader, size int64) (*model.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	filter   *moderation.Filter
	store    storage.ObjectStorage
	cache    *cache.Client
	log      logging.Logger
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	filter *moderation.Filter,
	store storage.ObjectStorage,
	cache *cache.Client,
	log logging.Logger,
) PostService {
	return &postService{
		postRepo: postRepo,
		filter:   filter,
		store:    store,
		cache:    cache,
		log:      log,
	}
}

func (s *postService) Create(ctx context.Context, userID uint, content string) (*model.Post, error) {
	if err := s.filter.Check(content); err != nil {
		s.log.Warn(ctx, "post rejected by content filter", "user_id", userID)
		return nil, err
	}

	post := &model.Post{UserID: userID, Content: content}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	_ = s.cache.Delete(ctx, feedCacheKey)
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// List returns the public feed, newest first, served from cache when fresh.
func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	if data, _ := s.cache.Get(ctx, feedCacheKey); data != nil {
		var cached []model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(posts); err == nil {
		_ = s.cache.Set(ctx, feedCacheKey, payload, feedCacheTTL)
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, userID, id uint, content string) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		s.log.Warn(ctx, "post update denied", "post_id", id, "user_id", userID, "owner_id", post.UserID)
		return nil, apperrors.ErrNotOwner
	}
	if err := s.filter.Check(content); err != nil {
		s.log.Warn(ctx, "post update rejected by content filter", "post_id", id, "user_id", userID)
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	_ = s.cache.Delete(ctx, feedCacheKey)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, userID, id uint) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		s.log.Warn(ctx, "post delete denied", "post_id", id, "user_id", userID, "owner_id", post.UserID)
		return apperrors.ErrNotOwner
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if post.ImageObject != "" {
		if err := s.store.DeleteImage(ctx, post.ImageObject); err != nil {
			// The post row is gone; a stray object is only logged.
			s.log.Error(ctx, "delete post image failed", "post_id", id, "err", err)
		}
	}
	_ = s.cache.Delete(ctx, feedCacheKey)
	return nil
}

// AttachImage uploads the image to object storage and records its URL.
func (s *postService) AttachImage(ctx context.Context, userID, id uint, fileName string, file io.Reader, size int64) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}

	objectName, url, err := s.store.UploadImage(ctx, id, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if post.ImageObject != "" {
		_ = s.store.DeleteImage(ctx, post.ImageObject)
	}
	if err := s.postRepo.SetImage(ctx, id, objectName, url); err != nil {
		return nil, fmt.Errorf("record image: %w", err)
	}

	post.ImageObject, post.ImageURL = objectName, url
	_ = s.cache.Delete(ctx, feedCacheKey)
	return post, nil
}
