package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/policy"
	"github.com/spec-kit/shipment-service/internal/repository"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

// UserService exposes account administration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// UserCreateInput is the administrative account payload.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
	Province *string
	Branch   *string
}

// UserUpdateInput holds optional changes. An empty Password keeps the stored hash.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *domain.Role
	Province *string
	Branch   *string
	Active   *bool
}

// UserListFilter narrows listings.
type UserListFilter struct {
	Role     *domain.Role
	Province *string
	Limit    int
	Offset   int
}

// Create registers an account with any role the actor may grant.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, input UserCreateInput) (*domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	if input.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("only a superadmin may create a superadmin")
	}

	user := &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Role:     input.Role,
		Province: trimmedPtr(input.Province),
		Branch:   trimmedPtr(input.Branch),
		Active:   true,
	}
	if err := validateAccount(user, input.Password, true); err != nil {
		return nil, err
	}
	if err := emailFree(ctx, s.users, user.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError("unusable password", nil)
	}
	user.PasswordHash = hash
	if err := s.users.Create(ctx, user); err != nil {
		return nil, accountWriteError(err, user.Email)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("by", actor.ID))
	return user, nil
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// List returns accounts matching filter.
func (s *UserService) List(ctx context.Context, actor domain.Actor, filter UserListFilter) ([]domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", nil)
	}
	users, err := s.users.List(ctx, repository.UserFilter{
		Role:     filter.Role,
		Province: filter.Province,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Update applies changes. The password is hashed here only when a new one is supplied.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, input UserUpdateInput) (*domain.User, error) {
	if err := requireManageUsers(actor); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	touchesSuperAdmin := user.Role == domain.RoleSuperAdmin ||
		(input.Role != nil && *input.Role == domain.RoleSuperAdmin)
	if touchesSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("only a superadmin may modify a superadmin")
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
		if err := emailFree(ctx, s.users, user.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Province != nil {
		user.Province = trimmedPtr(input.Province)
	}
	if input.Branch != nil {
		user.Branch = trimmedPtr(input.Branch)
	}
	if input.Active != nil {
		if !*input.Active && user.ID == actor.ID {
			return nil, apperrors.NewValidationError("cannot deactivate your own account", nil)
		}
		user.Active = *input.Active
	}

	password := ""
	if input.Password != nil {
		password = *input.Password
	}
	if err := validateAccount(user, password, false); err != nil {
		return nil, err
	}
	if password != "" {
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewValidationError("unusable password", nil)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, accountWriteError(err, user.Email)
	}
	return user, nil
}

// Delete removes an account other than the actor's own.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireManageUsers(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return apperrors.NewForbidden("only a superadmin may modify a superadmin")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		if apperrors.IsStillReferenced(err) {
			return apperrors.NewConflict("user has shipments or products; deactivate the account instead",
				map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", actor.ID))
	return nil
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func requireManageUsers(actor domain.Actor) error {
	if !policy.Can(actor.Role, policy.ActionManageUsers) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}
