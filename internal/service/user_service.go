package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/security/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed-message user errors, classified centrally by the HTTP error writer.
var (
	ErrEmailTaken     = errors.New("Email must be unique")
	ErrBadCredentials = errors.New("Invalid credentials")
	ErrUserNotFound   = errors.New("User not found")
)

// UserService composes the user store with hashing and token issuance.
type UserService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// CreateUser hashes the password and stores the new account. The returned
// user never carries the password hash.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID.Hex()),
		slog.String("email", user.Email),
	)

	user.Password = ""
	return user, nil
}

// FindUser loads a user by id, without the password hash.
func (s *UserService) FindUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ComparePassword reports whether the plaintext matches the stored hash.
func (s *UserService) ComparePassword(plaintext, hash string) bool {
	return auth.CheckPassword(plaintext, hash)
}

// CreateAuthToken issues a signed token for the given user. The claims
// carry only id, name, and email; never the password hash.
func (s *UserService) CreateAuthToken(user *domain.User) (string, error) {
	return s.tokens.Issue(user.ID.Hex(), user.Name, user.Email)
}

// Login verifies credentials and returns a fresh auth token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt with unknown email", slog.String("email", email))
			return "", ErrBadCredentials
		}
		return "", err
	}

	if !s.ComparePassword(password, user.Password) {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return "", ErrBadCredentials
	}

	token, err := s.CreateAuthToken(user)
	if err != nil {
		s.logger.Error("failed to sign token",
			slog.String("user_id", user.ID.Hex()),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID.Hex()),
		slog.String("email", user.Email),
	)
	return token, nil
}

// UpdateUser patches the caller's own account. A new password is hashed
// before it reaches the store.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Password != "" {
		hash, err := auth.HashPassword(upd.Password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, err
		}
		upd.Password = hash
	}

	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, domain.ErrDuplicateKey):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}
