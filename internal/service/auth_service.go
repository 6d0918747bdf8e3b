package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aspira/internal/auth"
	apperrors "aspira/internal/errors"
	"aspira/internal/logging"
	"aspira/internal/model"
	"aspira/internal/repository"
)

// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// AuthService authenticates accounts and manages token pairs. Credentials may
// name the account by username or by email; an email is resolved to its
// username internally.
type AuthService interface {
	Login(ctx context.Context, username, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	log         logging.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	log logging.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		log:         log,
	}
}

// Login authenticates and returns an access/refresh token pair. An account
// with an unverified email is rejected before the password is even checked,
// with a dedicated error so clients can offer a resend.
func (s *authService) Login(ctx context.Context, username, email, password string) (string, string, *model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case email != "":
		user, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn(ctx, "login for unknown email", "email", email)
				return "", "", nil, apperrors.ErrUserNotFound
			}
			return "", "", nil, fmt.Errorf("find user by email: %w", err)
		}
	case username != "":
		user, err = s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn(ctx, "login for unknown username", "username", username)
				return "", "", nil, apperrors.ErrInvalidCredentials
			}
			return "", "", nil, fmt.Errorf("find user by username: %w", err)
		}
	default:
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("find profile: %w", err)
	}
	if !profile.IsEmailVerified {
		s.log.Warn(ctx, "login blocked: email not verified", "username", user.Username)
		return "", "", nil, apperrors.ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn(ctx, "login failed: password mismatch", "username", user.Username)
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Username, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
