// Package auth implements password login and the authenticated-user
// lookup backing GET /me.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenMinter interface {
	Mint(userID uuid.UUID) (string, time.Time, error)
}

// Service implements authentication business logic.
type Service struct {
	log    *slog.Logger
	users  userRepo
	tokens tokenMinter
}

// NewService creates an auth service.
func NewService(logger *slog.Logger, users userRepo, tokens tokenMinter) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		tokens: tokens,
	}
}

// LoginResult carries a minted token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies credentials and mints an access token. Unknown email
// and wrong password both surface as ErrUnauthorized so the response
// does not reveal which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "email and password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.String()))

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetMe returns the user behind an authenticated request.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
