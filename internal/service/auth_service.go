package service

import (
	"context"
	"fmt"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService against the fixed account
// directory.
type AuthServiceImpl struct {
	identityRepo ports.IdentityRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	identityRepo ports.IdentityRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		identityRepo: identityRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		log:          log,
	}
}

// Authenticate resolves credentials to a user identity. Every mismatch —
// empty input, unknown email, wrong password — yields the same
// InvalidCredentials error so nothing leaks about which field was wrong.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperror.ErrInvalidCredentials()
	}

	identity, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve identity: %w", err))
	}
	if identity == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, identity.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		s.log.Warn().Str("email", email).Msg("failed authentication attempt")
		return nil, apperror.ErrInvalidCredentials()
	}

	user := identity.User
	return &user, nil
}

// Login authenticates and issues a session token for the HTTP boundary.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokenSvc.Generate(user)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user logged in")

	return &ports.LoginResult{
		User:      *user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
