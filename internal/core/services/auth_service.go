package services

import (
	"context"
	"errors"
	"strings"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/config"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/jwt"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/password"
	"homework-desk/internal/pkg/validate"

	"github.com/google/uuid"
)

// Auth errors
var (
	ErrInvalidCredentials = &domain.AuthorizationError{Reason: "invalid phone number or PIN"}
	ErrPhoneTaken         = &domain.DuplicateError{Field: "phoneNumber"}
)

// AuthService handles registration and login
type AuthService struct {
	users    repositories.UserRepository
	notifier Notifier
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, notifier Notifier, cfg *config.Config) *AuthService {
	return &AuthService{users: users, notifier: notifier, cfg: cfg}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName    string `json:"fullName" validate:"notblank,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"len=10,digits"`
	Pin         string `json:"pin" validate:"len=6,digits"`
	ConfirmPin  string `json:"confirmPin" validate:"eqfield=Pin"`
}

// LoginInput represents login input
type LoginInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Pin         string `json:"pin" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// Register creates a student account. The owner phone number yields the
// admin account.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByPhone(ctx, input.PhoneNumber, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPhoneTaken
	}

	pinHash, err := password.Hash(input.Pin)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		PinHash:     pinHash,
		IsAdmin:     input.PhoneNumber == domain.OwnerPhone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("user", user.ID).
		Str("phone", logger.MaskPhone(user.PhoneNumber)).
		Bool("admin", user.IsAdmin).
		Msg("✅ User registered")
	s.notifier.Invalidate(EntityUsers)

	return s.issue(user)
}

// Login checks phone and PIN
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(input.PhoneNumber))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(input.Pin, user.PinHash) {
		logger.Log.Warn().Str("phone", logger.MaskPhone(user.PhoneNumber)).Msg("⚠️ Login failed")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.PhoneNumber,
		user.IsAdmin,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}
