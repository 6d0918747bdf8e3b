package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "aspira/internal/errors"
	"aspira/internal/model"
	"aspira/internal/moderation"
)

func newCommentService(commentRepo *MockCommentRepository, postRepo *MockPostRepository) CommentService {
	return NewCommentService(commentRepo, postRepo, moderation.NewFilter(), nopLogger{})
}

func TestCommentService_Create(t *testing.T) {
	t.Run("comment on existing post", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockPostRepo := new(MockPostRepository)
		mockPostRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.Post{ID: 3}, nil)
		mockCommentRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Comment) bool {
			return c.PostID == 3 && c.UserID == 7 && c.Content == "Setuju, sudah lama dikeluhkan."
		})).Return(nil)

		svc := newCommentService(mockCommentRepo, mockPostRepo)
		comment, err := svc.Create(context.Background(), 7, 3, "Setuju, sudah lama dikeluhkan.")
		assert.NoError(t, err)
		assert.Equal(t, uint(3), comment.PostID)
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockPostRepo := new(MockPostRepository)
		mockPostRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := newCommentService(mockCommentRepo, mockPostRepo)
		_, err := svc.Create(context.Background(), 7, 404, "halo")
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("forbidden content is rejected", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockPostRepo := new(MockPostRepository)
		mockPostRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.Post{ID: 3}, nil)

		svc := newCommentService(mockCommentRepo, mockPostRepo)
		_, err := svc.Create(context.Background(), 7, 3, "komentar vulgar sekali")
		assert.ErrorIs(t, err, apperrors.ErrForbiddenContent)
		mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_Update(t *testing.T) {
	t.Run("owner updates", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockCommentRepo.On("FindByID", mock.Anything, uint(5)).
			Return(&model.Comment{ID: 5, PostID: 3, UserID: 7, Content: "old"}, nil)
		mockCommentRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Comment) bool {
			return c.ID == 5 && c.Content == "ralat: gedung B juga"
		})).Return(nil)

		svc := newCommentService(mockCommentRepo, new(MockPostRepository))
		comment, err := svc.Update(context.Background(), 7, 5, "ralat: gedung B juga")
		assert.NoError(t, err)
		assert.Equal(t, "ralat: gedung B juga", comment.Content)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockCommentRepo.On("FindByID", mock.Anything, uint(5)).
			Return(&model.Comment{ID: 5, PostID: 3, UserID: 7}, nil)

		svc := newCommentService(mockCommentRepo, new(MockPostRepository))
		_, err := svc.Update(context.Background(), 99, 5, "hijack")
		assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	})

	t.Run("missing comment", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockCommentRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := newCommentService(mockCommentRepo, new(MockPostRepository))
		_, err := svc.Update(context.Background(), 7, 404, "x")
		assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockCommentRepo.On("FindByID", mock.Anything, uint(5)).
			Return(&model.Comment{ID: 5, UserID: 7}, nil)
		mockCommentRepo.On("Delete", mock.Anything, uint(5)).Return(nil)

		svc := newCommentService(mockCommentRepo, new(MockPostRepository))
		assert.NoError(t, svc.Delete(context.Background(), 7, 5))
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockCommentRepo.On("FindByID", mock.Anything, uint(5)).
			Return(&model.Comment{ID: 5, UserID: 7}, nil)

		svc := newCommentService(mockCommentRepo, new(MockPostRepository))
		err := svc.Delete(context.Background(), 99, 5)
		assert.ErrorIs(t, err, apperrors.ErrNotOwner)
		mockCommentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCommentService_ListByPost(t *testing.T) {
	t.Run("missing post", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockPostRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := newCommentService(new(MockCommentRepository), mockPostRepo)
		_, err := svc.ListByPost(context.Background(), 404)
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("existing post", func(t *testing.T) {
		mockCommentRepo := new(MockCommentRepository)
		mockPostRepo := new(MockPostRepository)
		mockPostRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.Post{ID: 3}, nil)
		mockCommentRepo.On("ListByPost", mock.Anything, uint(3)).Return([]model.Comment{{ID: 1, PostID: 3}}, nil)

		svc := newCommentService(mockCommentRepo, mockPostRepo)
		comments, err := svc.ListByPost(context.Background(), 3)
		assert.NoError(t, err)
		assert.Len(t, comments, 1)
	})
}
