package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/rs/zerolog"
)

// Service signs users in and manages accounts.
type Service interface {
	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)

	// CreateUser adds an account. Only a super admin may do this.
	CreateUser(ctx context.Context, actor *access.Actor, req *model.CreateUserRequest) (*model.User, error)

	// EnsureSuperAdmin creates the bootstrap super admin when no super admin
	// exists yet. It reports whether an account was created.
	EnsureSuperAdmin(ctx context.Context, username, password string) (bool, error)
}

type service struct {
	users  repository.UserRepository
	tokens *TokenManager
	logger zerolog.Logger

	// dummyHash is compared against when the user does not exist, so a
	// failed login costs the same whether or not the username is known.
	dummyHash string
}

// NewService creates the account service.
func NewService(users repository.UserRepository, tokens *TokenManager, logger zerolog.Logger) Service {
	dummy, _ := HashPassword("not-a-real-password")
	return &service{
		users:     users,
		tokens:    tokens,
		logger:    logger.With().Str("service", "auth").Logger(),
		dummyHash: dummy,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.NewValidationError("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if user == nil {
		CheckPassword(s.dummyHash, password)
		s.logger.Info().Str("username", username).Msg("login failed")
		return nil, model.ErrUnauthenticated
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Info().Str("username", username).Msg("login failed")
		return nil, model.ErrUnauthenticated
	}

	token, err := s.tokens.Generate(*user)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	s.logger.Info().Str("username", username).Str("role", user.Role).Msg("user signed in")

	return &model.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *service) CreateUser(ctx context.Context, actor *access.Actor, req *model.CreateUserRequest) (*model.User, error) {
	if err := access.Authorize(actor, access.OpCreateUser); err != nil {
		s.logger.Warn().Err(err).Msg("user creation denied")
		return nil, err
	}

	if req == nil {
		return nil, model.ErrValidation
	}

	role := access.RoleStaff
	if req.Role != "" {
		parsed, ok := access.ParseRole(req.Role)
		if !ok {
			return nil, model.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
		}
		role = parsed
	}

	user, err := s.newUser(req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("username", user.Username).
		Str("role", user.Role).
		Str("actor", actor.Username).
		Msg("user created")

	return user, nil
}

func (s *service) EnsureSuperAdmin(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		s.logger.Debug().Msg("no super admin password configured, skipping bootstrap")
		return false, nil
	}

	count, err := s.users.CountByRole(ctx, string(access.RoleSuperAdmin))
	if err != nil {
		return false, fmt.Errorf("failed to check for super admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.newUser(username, password, access.RoleSuperAdmin)
	if err != nil {
		return false, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return false, fmt.Errorf("username %q is taken by an account without super admin rights", user.Username)
		}
		return false, fmt.Errorf("failed to create super admin: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("super admin account created")
	return true, nil
}

func (s *service) newUser(username, password string, role access.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.NewValidationError("username is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         string(role),
	}, nil
}
