package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
)

func newAuthFixture() (*AuthService, *memoryUsers, *auth.TokenManager) {
	users := &memoryUsers{}
	tokens := auth.NewTokenManager("test-secret", 30)
	return NewAuthService(users, tokens, bcrypt.MinCost), users, tokens
}

// TestRegister_CreatesClientWithHashedPassword verifies signup hashes once and issues a token.
func TestRegister_CreatesClientWithHashedPassword(t *testing.T) {
	svc, users, tokens := newAuthFixture()

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Sara",
		Email:    " Sara@Example.com ",
		Password: "s3cret-pass",
		Province: strPtr("Herat"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NoError(t, auth.ComparePassword(user.PasswordHash, "s3cret-pass"))

	claims, err := tokens.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	stored, err := users.GetByEmail(context.Background(), "sara@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

// TestRegister_Rejections verifies validation and duplicate handling.
func TestRegister_Rejections(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add(domain.User{Email: "taken@example.com", Role: domain.RoleClient, Active: true})

	_, _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "taken@example.com", Password: "long-enough"})
	requireCode(t, err, "CONFLICT")

	_, _, err = svc.Register(context.Background(), RegisterInput{Name: "A", Email: "not-an-email", Password: "long-enough"})
	requireCode(t, err, "VALIDATION_FAILED")

	_, _, err = svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "short"})
	requireCode(t, err, "VALIDATION_FAILED")

	_, _, err = svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "long-enough", Province: strPtr("Narnia")})
	requireCode(t, err, "VALIDATION_FAILED")
}

// TestRegister_DuplicateInsertIsConflict verifies a concurrent registration of the same email maps to CONFLICT.
func TestRegister_DuplicateInsertIsConflict(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	_, _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "long-enough"})
	requireCode(t, err, "CONFLICT")
}

// TestLogin verifies credential checks.
func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	hash, err := auth.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	active := users.add(domain.User{Name: "D", Email: "driver@example.com", PasswordHash: hash, Role: domain.RoleDriver, Active: true})
	users.add(domain.User{Name: "Off", Email: "off@example.com", PasswordHash: hash, Role: domain.RoleUser, Active: false})

	user, token, err := svc.Login(context.Background(), "DRIVER@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, active.ID, user.ID)
	assert.NotEmpty(t, token.Value)

	_, _, err = svc.Login(context.Background(), "driver@example.com", "wrong")
	requireCode(t, err, "UNAUTHORIZED")

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	requireCode(t, err, "UNAUTHORIZED")

	_, _, err = svc.Login(context.Background(), "off@example.com", "correct-horse")
	requireCode(t, err, "UNAUTHORIZED")
}
