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
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

var superActor = domain.Actor{ID: "super-1", Role: domain.RoleSuperAdmin}

// TestUserService_SuperadminRules verifies only superadmins create or modify superadmins.
func TestUserService_SuperadminRules(t *testing.T) {
	users := &memoryUsers{}
	svc := NewUserService(users, bcrypt.MinCost, nil)
	input := UserCreateInput{Name: "Root", Email: "root@example.com", Password: "password1", Role: domain.RoleSuperAdmin}

	_, err := svc.Create(context.Background(), adminActor, input)
	requireCode(t, err, "FORBIDDEN")

	root, err := svc.Create(context.Background(), superActor, input)
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(context.Background(), adminActor, root.ID, UserUpdateInput{Name: &name})
	requireCode(t, err, "FORBIDDEN")

	err = svc.Delete(context.Background(), adminActor, root.ID)
	requireCode(t, err, "FORBIDDEN")

	promote := domain.RoleSuperAdmin
	plain, err := svc.Create(context.Background(), adminActor, UserCreateInput{Name: "U", Email: "u@example.com", Password: "password1", Role: domain.RoleUser})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), adminActor, plain.ID, UserUpdateInput{Role: &promote})
	requireCode(t, err, "FORBIDDEN")
}

// TestUserService_UpdateKeepsHashWithoutPassword verifies the hash only changes when a password is given.
func TestUserService_UpdateKeepsHashWithoutPassword(t *testing.T) {
	users := &memoryUsers{}
	svc := NewUserService(users, bcrypt.MinCost, nil)
	created, err := svc.Create(context.Background(), adminActor, UserCreateInput{
		Name: "Driver", Email: "d@example.com", Password: "password1", Role: domain.RoleDriver, Province: strPtr("Kabul"),
	})
	require.NoError(t, err)
	originalHash := created.PasswordHash

	branch := "Kabul Central"
	updated, err := svc.Update(context.Background(), adminActor, created.ID, UserUpdateInput{Branch: &branch})
	require.NoError(t, err)
	assert.Equal(t, originalHash, updated.PasswordHash)
	assert.Equal(t, "Kabul Central", *updated.Branch)

	newPassword := "password2"
	updated, err = svc.Update(context.Background(), adminActor, created.ID, UserUpdateInput{Password: &newPassword})
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, updated.PasswordHash)
	assert.NoError(t, auth.ComparePassword(updated.PasswordHash, "password2"))
}

// TestUserService_Guards verifies role gating, self-deletion and province validation.
func TestUserService_Guards(t *testing.T) {
	users := &memoryUsers{}
	svc := NewUserService(users, bcrypt.MinCost, nil)

	_, err := svc.List(context.Background(), senderActor, UserListFilter{})
	requireCode(t, err, "FORBIDDEN")

	err = svc.Delete(context.Background(), adminActor, adminActor.ID)
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Create(context.Background(), adminActor, UserCreateInput{Name: "X", Email: "x@example.com", Password: "password1", Role: domain.RoleUser, Province: strPtr("Gotham")})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Create(context.Background(), adminActor, UserCreateInput{Name: "X", Email: "x@example.com", Password: "password1", Role: domain.Role("pilot")})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Get(context.Background(), adminActor, "missing")
	requireCode(t, err, "NOT_FOUND")
}

// TestUserService_DeleteReferencedUser verifies a user still owning shipments is a conflict, not a fault.
func TestUserService_DeleteReferencedUser(t *testing.T) {
	users := &memoryUsers{}
	svc := NewUserService(users, bcrypt.MinCost, nil)
	sender := users.add(domain.User{Name: "S", Email: "s@example.com", Role: domain.RoleUser, Active: true})
	users.deleteErr = &pgconn.PgError{Code: "23503", ConstraintName: "shipments_sender_id_fkey"}

	err := svc.Delete(context.Background(), adminActor, sender.ID)
	requireCode(t, err, "CONFLICT")
	assert.Contains(t, err.Error(), "deactivate")
}

// TestUserService_CreateLosesEmailRace verifies a duplicate caught by the unique index is a conflict.
func TestUserService_CreateLosesEmailRace(t *testing.T) {
	users := &memoryUsers{createErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}
	svc := NewUserService(users, bcrypt.MinCost, nil)

	_, err := svc.Create(context.Background(), adminActor, UserCreateInput{Name: "X", Email: "x@example.com", Password: "password1", Role: domain.RoleUser})
	requireCode(t, err, "CONFLICT")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "x@example.com", domainErr.Details["email"])
}
