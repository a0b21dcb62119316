package service

import (
	"context"
	"testing"
	"time"

	"hydra-ledger/internal/adapter/storage/memory"
	"hydra-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthServiceImpl, *JWTTokenService) {
	t.Helper()

	store := memory.NewStore()
	identityRepo := memory.NewIdentityRepo(store)
	hashSvc := NewArgon2HashService()
	tokenSvc := NewJWTTokenService("test-secret-at-least-32-bytes-long", time.Hour, "hydra-ledger")

	hash, err := hashSvc.Hash("password123")
	require.NoError(t, err)
	require.NoError(t, identityRepo.Create(context.Background(), &domain.Identity{
		User: domain.User{
			ID:    uuid.New(),
			Email: "user@hydra.io",
			Role:  domain.RoleUser,
		},
		PasswordHash: hash,
	}))

	return NewAuthService(identityRepo, hashSvc, tokenSvc, zerolog.Nop()), tokenSvc
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Authenticate(context.Background(), "user@hydra.io", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user@hydra.io", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	// Unknown account, wrong password and empty input are
	// indistinguishable to the caller.
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "user@hydra.io", "password124"},
		{"unknown email", "ghost@hydra.io", "password123"},
		{"empty email", "", "password123"},
		{"empty password", "user@hydra.io", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.email, tc.password)
			requireAppError(t, err, "AUTH_001")
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, tokenSvc := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "user@hydra.io", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user@hydra.io", result.User.Email)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := tokenSvc.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "user@hydra.io", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestJWTTokenService_Validate_Rejections(t *testing.T) {
	tokenSvc := NewJWTTokenService("test-secret-at-least-32-bytes-long", time.Hour, "hydra-ledger")
	other := NewJWTTokenService("another-secret-also-32-bytes-long!!", time.Hour, "hydra-ledger")

	user := &domain.User{ID: uuid.New(), Email: "user@hydra.io", Role: domain.RoleUser}
	token, _, err := other.Generate(user)
	require.NoError(t, err)

	_, err = tokenSvc.Validate(token)
	require.Error(t, err)

	_, err = tokenSvc.Validate("not-a-token")
	require.Error(t, err)
}

func TestSeededAddressSource_Deterministic(t *testing.T) {
	a := NewSeededAddressSource(7)
	b := NewSeededAddressSource(7)

	addrA := a.NewAddress("USDT")
	addrB := b.NewAddress("USDT")
	assert.Equal(t, addrA, addrB)
	assert.Len(t, addrA, 34)
	assert.Equal(t, byte('T'), addrA[0])

	// Successive draws differ.
	assert.NotEqual(t, addrA, a.NewAddress("USDT"))
}
