package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "aspira/internal/errors"
	"aspira/internal/logging"
	"aspira/internal/model"
	"aspira/internal/repository"
)

// ReactionOutcome names what a reaction submission did.
type ReactionOutcome string

const (
	// ReactionCreated means no reaction existed and one was created.
	ReactionCreated ReactionOutcome = "created"
	// ReactionRemoved means the identical type was resubmitted and toggled off.
	ReactionRemoved ReactionOutcome = "removed"
	// ReactionUpdated means a different type replaced the existing one in place.
	ReactionUpdated ReactionOutcome = "updated"
)

// ReactionService drives the per (post, user) reaction state machine:
// absent -> created, same type -> removed, different type -> updated.
type ReactionService interface {
	React(ctx context.Context, userID, postID uint, reactionType string) (ReactionOutcome, *model.Reaction, error)
	ListByPost(ctx context.Context, postID uint) ([]model.Reaction, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	log          logging.Logger
}

// NewReactionService creates a new reaction service.
func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	log logging.Logger,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		log:          log,
	}
}

// React runs one state transition. The lookup and the following write share a
// transaction, and the (post_id, user_id) unique index backs it up: when two
// first-time submissions race, the losing insert surfaces as a duplicate key
// and is retried once through the existing-reaction path.
func (s *reactionService) React(ctx context.Context, userID, postID uint, reactionType string) (ReactionOutcome, *model.Reaction, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(ctx, "reaction on missing post", "post_id", postID, "user_id", userID)
			return "", nil, apperrors.ErrPostNotFound
		}
		return "", nil, fmt.Errorf("find post: %w", err)
	}

	var (
		outcome  ReactionOutcome
		reaction *model.Reaction
	)
	err := s.reactionRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.ReactionRepository) error {
		existing, err := repo.FindByPostAndUserForUpdate(ctx, postID, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("find reaction: %w", err)
			}
			created := &model.Reaction{PostID: postID, UserID: userID, ReactionType: reactionType}
			if err := repo.Create(ctx, created); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost a race against a concurrent identical submit;
					// collapse to the existing-reaction path.
					existing, err = repo.FindByPostAndUserForUpdate(ctx, postID, userID)
					if err != nil {
						return fmt.Errorf("find reaction after conflict: %w", err)
					}
					return s.transition(ctx, repo, existing, reactionType, &outcome, &reaction)
				}
				return fmt.Errorf("create reaction: %w", err)
			}
			outcome, reaction = ReactionCreated, created
			return nil
		}
		return s.transition(ctx, repo, existing, reactionType, &outcome, &reaction)
	})
	if err != nil {
		return "", nil, err
	}
	return outcome, reaction, nil
}

// transition handles the two non-create transitions on an existing reaction.
func (s *reactionService) transition(
	ctx context.Context,
	repo repository.ReactionRepository,
	existing *model.Reaction,
	reactionType string,
	outcome *ReactionOutcome,
	reaction **model.Reaction,
) error {
	if existing.ReactionType == reactionType {
		if err := repo.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete reaction: %w", err)
		}
		*outcome, *reaction = ReactionRemoved, nil
		return nil
	}
	if err := repo.UpdateType(ctx, existing.ID, reactionType); err != nil {
		return fmt.Errorf("update reaction: %w", err)
	}
	existing.ReactionType = reactionType
	*outcome, *reaction = ReactionUpdated, existing
	return nil
}

func (s *reactionService) ListByPost(ctx context.Context, postID uint) ([]model.Reaction, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return s.reactionRepo.ListByPost(ctx, postID)
}
