package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "aspira/internal/errors"
	"aspira/internal/logging"
	"aspira/internal/mail"
	"aspira/internal/model"
	"aspira/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	NIM         string
	Jurusan     string
	Angkatan    int
	PhoneNumber string
}

// RegistrationService creates accounts and drives the email verification
// lifecycle: token issuance, single-use consumption, and resend.
type RegistrationService interface {
	// Register creates the account. fields may carry format failures already
	// collected by the transport layer; duplicate-identity failures are merged
	// into the same map so the client sees every problem in one round trip.
	Register(ctx context.Context, input RegisterInput, fields apperrors.FieldErrors) (*model.User, error)
	// VerifyEmail consumes a token. alreadyVerified is true when the account
	// was verified before this call (idempotent success).
	VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error)
	// ResendVerification rotates the token and re-sends the mail.
	// alreadyVerified is true when no new token was issued.
	ResendVerification(ctx context.Context, email string) (alreadyVerified bool, err error)
}

type registrationService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	mailer      mail.Mailer
	log         logging.Logger
	frontendURL string
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	mailer mail.Mailer,
	log logging.Logger,
	frontendURL string,
) RegistrationService {
	return &registrationService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		mailer:      mailer,
		log:         log,
		frontendURL: frontendURL,
	}
}

// Register persists account and profile atomically, then dispatches the
// verification mail. A mail transport failure is returned to the caller but
// the persisted account stays; resend-verification is the retry path.
func (s *registrationService) Register(ctx context.Context, input RegisterInput, fields apperrors.FieldErrors) (*model.User, error) {
	if fields == nil {
		fields = apperrors.FieldErrors{}
	}

	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		fields.Add("username", "Username is already in use.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		fields.Add("email", "Email is already in use.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if _, err := s.profileRepo.FindByNIM(ctx, input.NIM); err == nil {
		fields.Add("nim", "NIM is already in use.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check nim: %w", err)
	}

	if fields.HasErrors() {
		return nil, fields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token := uuid.NewString()
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}
	profile := &model.Profile{
		NIM:                    input.NIM,
		FullName:               input.FullName,
		PhoneNumber:            input.PhoneNumber,
		Jurusan:                input.Jurusan,
		Angkatan:               input.Angkatan,
		EmailVerificationToken: &token,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent registration won the race on one of the unique keys.
			fields.Add("username", "Username, email or NIM is already in use.")
			return nil, fields
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.sendVerificationMail(user.Email, token); err != nil {
		s.log.Error(ctx, "verification mail dispatch failed",
			"email", user.Email, "username", user.Username, "err", err)
		return user, apperrors.ErrMailTransport
	}

	s.log.Info(ctx, "user registered", "username", user.Username, "nim", profile.NIM)
	return user, nil
}

func (s *registrationService) VerifyEmail(ctx context.Context, token string) (bool, error) {
	profile, err := s.profileRepo.ConsumeToken(ctx, token)
	if err == nil {
		s.log.Info(ctx, "email verified", "profile_user_id", profile.UserID)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("consume token: %w", err)
	}

	// No active token matches. The link that completed verification stays
	// recognizable so a repeated click remains a success; anything else,
	// including a token rotated away by a resend, is rejected.
	if _, err := s.profileRepo.FindByConsumedToken(ctx, token); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup consumed token: %w", err)
	}

	s.log.Warn(ctx, "invalid email verification token", "token", token)
	return false, apperrors.ErrInvalidToken
}

func (s *registrationService) ResendVerification(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(ctx, "resend verification for unknown email", "email", email)
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("find profile: %w", err)
	}
	if profile.IsEmailVerified {
		return true, nil
	}

	// Rotating first makes the old token invalid even if the mail below fails;
	// the new token stays valid so a retried resend can succeed.
	token := uuid.NewString()
	if err := s.profileRepo.RotateToken(ctx, profile.ID, token); err != nil {
		return false, fmt.Errorf("rotate token: %w", err)
	}

	if err := s.sendVerificationMail(user.Email, token); err != nil {
		s.log.Error(ctx, "verification mail dispatch failed",
			"email", user.Email, "username", user.Username, "err", err)
		return false, apperrors.ErrMailTransport
	}
	return false, nil
}

func (s *registrationService) sendVerificationMail(email, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		s.frontendURL, url.QueryEscape(token), url.QueryEscape(email))
	body := fmt.Sprintf("Welcome to Aspira!\n\nPlease verify your email by opening this link:\n%s\n", link)
	return s.mailer.Send(email, "Verify Your Email", body)
}
