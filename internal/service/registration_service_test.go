package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "aspira/internal/errors"
	"aspira/internal/model"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:    "budi.santoso",
		Email:       "budi@kampus.ac.id",
		Password:    "password123",
		FullName:    "Budi Santoso",
		NIM:         "21120001",
		Jurusan:     "Teknik Informatika",
		Angkatan:    2021,
		PhoneNumber: "+6281234567890",
	}
}

func TestRegistrationService_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)
		mockMailer := new(MockMailer)

		mockUserRepo.On("FindByUsername", mock.Anything, "budi.santoso").Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByNIM", mock.Anything, "21120001").Return(nil, gorm.ErrRecordNotFound)

		var issuedToken string
		mockUserRepo.On("CreateWithProfile", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
			if p.EmailVerificationToken == nil || p.IsEmailVerified {
				return false
			}
			issuedToken = *p.EmailVerificationToken
			return p.NIM == "21120001" && p.Angkatan == 2021
		})).Return(nil)

		mockMailer.On("Send", "budi@kampus.ac.id", "Verify Your Email", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "https://aspira.test/verify-email?token=")
		})).Return(nil)

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, mockMailer, nopLogger{}, "https://aspira.test")
		user, err := svc.Register(context.Background(), validRegisterInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, "budi.santoso", user.Username)
		assert.NotEmpty(t, issuedToken)
		// Password is stored hashed, never verbatim.
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

		mockUserRepo.AssertExpectations(t)
		mockMailer.AssertExpectations(t)
	})

	t.Run("duplicate username, email and nim are reported together", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)

		mockUserRepo.On("FindByUsername", mock.Anything, "budi.santoso").Return(&model.User{ID: 1}, nil)
		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(&model.User{ID: 1}, nil)
		mockProfileRepo.On("FindByNIM", mock.Anything, "21120001").Return(&model.Profile{ID: 1}, nil)

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		_, err := svc.Register(context.Background(), validRegisterInput(), nil)

		var fields apperrors.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "nim")
	})

	t.Run("format errors merge with duplicate checks", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)

		mockUserRepo.On("FindByUsername", mock.Anything, "budi.santoso").Return(&model.User{ID: 1}, nil)
		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByNIM", mock.Anything, "21120001").Return(nil, gorm.ErrRecordNotFound)

		seed := apperrors.FieldErrors{}
		seed.Add("password_confirmation", "Passwords do not match.")

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		_, err := svc.Register(context.Background(), validRegisterInput(), seed)

		var fields apperrors.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "password_confirmation")
		assert.Contains(t, fields, "username")
		mockUserRepo.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent duplicate surfaces as field error", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)

		mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByNIM", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("CreateWithProfile", mock.Anything, mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		_, err := svc.Register(context.Background(), validRegisterInput(), nil)

		var fields apperrors.FieldErrors
		assert.ErrorAs(t, err, &fields)
	})

	t.Run("mail failure keeps the account and reports transport error", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)
		mockMailer := new(MockMailer)

		mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByNIM", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		mockUserRepo.On("CreateWithProfile", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, mockMailer, nopLogger{}, "https://aspira.test")
		user, err := svc.Register(context.Background(), validRegisterInput(), nil)

		assert.ErrorIs(t, err, apperrors.ErrMailTransport)
		assert.NotNil(t, user)
	})
}

func TestRegistrationService_VerifyEmail(t *testing.T) {
	t.Run("active token is consumed once", func(t *testing.T) {
		mockProfileRepo := new(MockProfileRepository)
		mockProfileRepo.On("ConsumeToken", mock.Anything, "tok-1").Return(&model.Profile{ID: 1, UserID: 7, IsEmailVerified: true}, nil)

		svc := NewRegistrationService(new(MockUserRepository), mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		already, err := svc.VerifyEmail(context.Background(), "tok-1")
		assert.NoError(t, err)
		assert.False(t, already)
	})

	t.Run("repeating the consumed token stays a success", func(t *testing.T) {
		mockProfileRepo := new(MockProfileRepository)
		mockProfileRepo.On("ConsumeToken", mock.Anything, "tok-1").Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByConsumedToken", mock.Anything, "tok-1").Return(&model.Profile{ID: 1, IsEmailVerified: true}, nil)

		svc := NewRegistrationService(new(MockUserRepository), mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		already, err := svc.VerifyEmail(context.Background(), "tok-1")
		assert.NoError(t, err)
		assert.True(t, already)
	})

	t.Run("unknown or rotated-away token is rejected", func(t *testing.T) {
		mockProfileRepo := new(MockProfileRepository)
		mockProfileRepo.On("ConsumeToken", mock.Anything, "stale").Return(nil, gorm.ErrRecordNotFound)
		mockProfileRepo.On("FindByConsumedToken", mock.Anything, "stale").Return(nil, gorm.ErrRecordNotFound)

		svc := NewRegistrationService(new(MockUserRepository), mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		_, err := svc.VerifyEmail(context.Background(), "stale")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestRegistrationService_ResendVerification(t *testing.T) {
	user := &model.User{ID: 7, Username: "budi", Email: "budi@kampus.ac.id"}

	t.Run("rotates token then sends", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)
		mockMailer := new(MockMailer)

		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(user, nil)
		mockProfileRepo.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{ID: 3, UserID: 7}, nil)

		var rotatedToken string
		mockProfileRepo.On("RotateToken", mock.Anything, uint(3), mock.MatchedBy(func(token string) bool {
			rotatedToken = token
			return token != ""
		})).Return(nil)
		mockMailer.On("Send", "budi@kampus.ac.id", "Verify Your Email", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, rotatedToken)
		})).Return(nil)

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, mockMailer, nopLogger{}, "https://aspira.test")
		already, err := svc.ResendVerification(context.Background(), "budi@kampus.ac.id")
		assert.NoError(t, err)
		assert.False(t, already)
		mockProfileRepo.AssertExpectations(t)
		mockMailer.AssertExpectations(t)
	})

	t.Run("already verified account issues nothing", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)

		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(user, nil)
		mockProfileRepo.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{ID: 3, UserID: 7, IsEmailVerified: true}, nil)

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, new(MockMailer), nopLogger{}, "https://aspira.test")
		already, err := svc.ResendVerification(context.Background(), "budi@kampus.ac.id")
		assert.NoError(t, err)
		assert.True(t, already)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByEmail", mock.Anything, "ghost@kampus.ac.id").Return(nil, gorm.ErrRecordNotFound)

		svc := NewRegistrationService(mockUserRepo, new(MockProfileRepository), new(MockMailer), nopLogger{}, "https://aspira.test")
		_, err := svc.ResendVerification(context.Background(), "ghost@kampus.ac.id")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("mail failure after rotation keeps the new token", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockProfileRepo := new(MockProfileRepository)
		mockMailer := new(MockMailer)

		mockUserRepo.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(user, nil)
		mockProfileRepo.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{ID: 3, UserID: 7}, nil)
		mockProfileRepo.On("RotateToken", mock.Anything, uint(3), mock.Anything).Return(nil)
		mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

		svc := NewRegistrationService(mockUserRepo, mockProfileRepo, mockMailer, nopLogger{}, "https://aspira.test")
		_, err := svc.ResendVerification(context.Background(), "budi@kampus.ac.id")
		assert.ErrorIs(t, err, apperrors.ErrMailTransport)
		mockProfileRepo.AssertExpectations(t)
	})
}
