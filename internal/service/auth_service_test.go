package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aspira/internal/auth"
	apperrors "aspira/internal/errors"
	"aspira/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	verifiedUser := &model.User{ID: 7, Username: "budi", Email: "budi@kampus.ac.id", PasswordHash: string(hashed)}

	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockProfileRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login by username",
			username: "budi",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByUsername", mock.Anything, "budi").Return(verifiedUser, nil)
				mProfile.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{UserID: 7, IsEmailVerified: true}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "budi", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "successful login by email",
			email:    "budi@kampus.ac.id",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByEmail", mock.Anything, "budi@kampus.ac.id").Return(verifiedUser, nil)
				mProfile.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{UserID: 7, IsEmailVerified: true}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "budi", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "unverified email rejected before password check",
			username: "budi",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByUsername", mock.Anything, "budi").Return(verifiedUser, nil)
				mProfile.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{UserID: 7, IsEmailVerified: false}, nil)
			},
			expectedError: apperrors.ErrEmailNotVerified,
		},
		{
			name:     "wrong password",
			username: "budi",
			password: "wrong-password",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByUsername", mock.Anything, "budi").Return(verifiedUser, nil)
				mProfile.On("FindByUserID", mock.Anything, uint(7)).Return(&model.Profile{UserID: 7, IsEmailVerified: true}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown username folds into invalid credentials",
			username: "nobody",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email is a distinct not-found",
			email:    "ghost@kampus.ac.id",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mProfile *MockProfileRepository, mToken *MockTokenStore) {
				mUser.On("FindByEmail", mock.Anything, "ghost@kampus.ac.id").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:          "no identity at all",
			password:      "password123",
			setupMock:     func(*MockUserRepository, *MockProfileRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockProfileRepo := new(MockProfileRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockUserRepo, mockProfileRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockUserRepo, mockProfileRepo, jwtService, mockTokenStore, nopLogger{})

			access, refresh, user, err := svc.Login(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, access)
				assert.NotEmpty(t, refresh)
				assert.Equal(t, "budi", user.Username)

				claims, err := jwtService.ValidateToken(access)
				assert.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
				assert.Equal(t, "budi", claims.Username)
			}

			mockUserRepo.AssertExpectations(t)
			mockProfileRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "budi")
	assert.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "budi", nil)

		svc := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, nopLogger{})
		access, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, nopLogger{})
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("stored identity mismatch", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(99), "someone-else", nil)

		svc := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, nopLogger{})
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, new(MockTokenStore), nopLogger{})
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "budi")
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, nopLogger{})
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	mockTokenStore.AssertExpectations(t)
}
