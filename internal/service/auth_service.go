package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/repository"
	apperrors "github.com/spec-kit/shipment-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokenMgr: tokens, bcryptCost: bcryptCost}
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Province *string
	Branch   *string
}

// Register creates a client account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, domain.Token, error) {
	user := &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Role:     domain.RoleClient,
		Province: trimmedPtr(input.Province),
		Branch:   trimmedPtr(input.Branch),
		Active:   true,
	}
	if err := validateAccount(user, input.Password, true); err != nil {
		return nil, domain.Token{}, err
	}
	if err := emailFree(ctx, s.users, user.Email, ""); err != nil {
		return nil, domain.Token{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewValidationError("unusable password", nil)
	}
	user.PasswordHash = hash
	if err := s.users.Create(ctx, user); err != nil {
		return nil, domain.Token{}, accountWriteError(err, user.Email)
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.Token, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, domain.Token{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, domain.Token{}, apperrors.NewUnauthorized("user inactive")
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// Me returns the stored account of the actor.
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// accountWriteError reports a lost race on the unique email index the same
// way emailFree reports a taken address.
func accountWriteError(err error, email string) error {
	if apperrors.IsUniqueViolation(err) {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	return apperrors.MapError(err)
}

func emailFree(ctx context.Context, users repository.UserRepository, email, selfID string) error {
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	case err == nil, apperrors.IsNotFound(err):
		return nil
	default:
		return apperrors.MapError(err)
	}
}

// validateAccount checks the fields shared by signup and user management.
func validateAccount(user *domain.User, password string, passwordRequired bool) error {
	details := map[string]any{}
	if user.Name == "" {
		details["name"] = "required"
	}
	if _, err := mail.ParseAddress(user.Email); err != nil || user.Email == "" {
		details["email"] = "invalid email"
	}
	if passwordRequired || password != "" {
		if len(password) < minPasswordLength {
			details["password"] = "must be at least 8 characters"
		}
	}
	if !user.Role.Valid() {
		details["role"] = "unknown role"
	}
	if user.Province != nil && !domain.IsProvince(*user.Province) {
		details["province"] = "unknown province"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid account", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
