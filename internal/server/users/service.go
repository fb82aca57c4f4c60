package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/apperr"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/validate"
	"github.com/dmitrijs2005/microblog/internal/shared"
)

// AuthData is what a successful login returns to the client.
type AuthData struct {
	Token  string
	UserID string
}

type Service struct {
	repo       Repository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     logging.Logger
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:       repo,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
		logger:     logger.With("module", "users"),
	}
}

// Register validates the input, rejects duplicate emails and stores the
// account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, error) {

	if msgs := validate.Struct(validate.Registration{Email: email, Password: password}); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email Already Exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Email:    email,
		Name:     name,
		Password: hash,
		Status:   DefaultStatus,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// lost the race against a concurrent registration
			return nil, apperr.Conflict("Email Already Exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "userId", user.ID.Hex())
	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password produce the same error so callers cannot probe which
// one was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthData, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.Unauthenticated("Invalid Email or Password")
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, apperr.Unauthenticated("Invalid Email or Password")
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &AuthData{Token: token, UserID: user.ID.Hex()}, nil
}

// Get returns the user with the given hex id.
func (s *Service) Get(ctx context.Context, idHex string) (*User, error) {

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("User Not Found")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.NotFound("User Not Found")
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// UpdateStatus sets the user's status line and returns the updated user.
func (s *Service) UpdateStatus(ctx context.Context, idHex, status string) (*User, error) {

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("User Not Found")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.NotFound("User Not Found")
		}
		return nil, fmt.Errorf("error updating status: %w", err)
	}

	return s.Get(ctx, idHex)
}
