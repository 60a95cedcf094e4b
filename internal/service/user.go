package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// UserEvents is the subset of the event producer used by UserService.
type UserEvents interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}

// UserService implements credential verification, session issuance, and user
// management.
type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
	events UserEvents
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager, events UserEvents, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for a self-service profile update.
// Nil fields keep their current value.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateUserInput holds the parameters for an admin user update. Name and
// email default to their current values when nil; the admin flag is always
// overwritten.
type UpdateUserInput struct {
	Name    *string
	Email   *string
	IsAdmin bool
}

// Register creates a new user account with a hashed password and returns the
// user along with a fresh session token. The account is never created with
// admin privileges.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.Name == "" {
		return nil, "", apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login verifies the email/password pair and returns the user with a fresh
// session token. Unknown emails and wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.InvalidInput("email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// VerifyToken validates a session token and returns the encoded user
// identifier. It does not resolve the identifier against the store.
func (s *UserService) VerifyToken(token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", apperrors.Unauthorized("invalid or expired token")
	}
	return claims.UserID, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a self-service profile update. Absent fields keep
// their current value; a supplied password is re-hashed. A fresh session
// token is returned so clients can rotate credentials immediately.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get user for profile update: %w", err)
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user profile: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// ListUsers returns all users. Admin only; enforced at the HTTP boundary.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies an admin update to another user's account. Name and
// email default to their current values; the admin flag is overwritten
// unconditionally.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	user.IsAdmin = input.IsAdmin

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated by admin",
		slog.String("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// DeleteUser removes a user account. Admin only; enforced at the HTTP
// boundary.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id),
	)

	return nil
}
