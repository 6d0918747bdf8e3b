package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "aspira/internal/errors"
	"aspira/internal/logging"
	"aspira/internal/model"
	"aspira/internal/moderation"
	"aspira/internal/repository"
)

// CommentService handles comments on posts. Content passes the moderation
// filter on create and update; mutations are owner-only.
type CommentService interface {
	Create(ctx context.Context, userID, postID uint, content string) (*model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]model.Comment, error)
	Update(ctx context.Context, userID, id uint, content string) (*model.Comment, error)
	Delete(ctx context.Context, userID, id uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	filter      *moderation.Filter
	log         logging.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	filter *moderation.Filter,
	log logging.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		filter:      filter,
		log:         log,
	}
}

func (s *commentService) Create(ctx context.Context, userID, postID uint, content string) (*model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	if err := s.filter.Check(content); err != nil {
		s.log.Warn(ctx, "comment rejected by content filter", "user_id", userID, "post_id", postID)
		return nil, err
	}

	comment := &model.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context) ([]model.Comment, error) {
	return s.commentRepo.List(ctx)
}

func (s *commentService) ListByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *commentService) Update(ctx context.Context, userID, id uint, content string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		s.log.Warn(ctx, "comment update denied", "comment_id", id, "user_id", userID, "owner_id", comment.UserID)
		return nil, apperrors.ErrNotOwner
	}
	if err := s.filter.Check(content); err != nil {
		s.log.Warn(ctx, "comment update rejected by content filter", "comment_id", id, "user_id", userID)
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, userID, id uint) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		s.log.Warn(ctx, "comment delete denied", "comment_id", id, "user_id", userID, "owner_id", comment.UserID)
		return apperrors.ErrNotOwner
	}
	return s.commentRepo.Delete(ctx, id)
}
