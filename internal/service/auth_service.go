package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelane/catalog_api/internal/models"
	"github.com/storelane/catalog_api/internal/utils"
)

// UserRepository is the data access surface the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService handles registration, login and the startup admin bootstrap.
type AuthService struct {
	userRepo UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a new non-admin account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, utils.ErrValidation
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, utils.ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("email", email).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("password verification failed")
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", email).Msg("login successful")
	return token, user, nil
}

// EnsureAdmin creates an admin account with the given credentials if no
// account exists for the email yet. Called once at startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("admin account bootstrapped")
	return nil
}
