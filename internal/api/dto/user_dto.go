package dto

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// CreateUserRequest is the administrative account payload.
type CreateUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	Province *string `json:"province"`
	Branch   *string `json:"branch"`
}

// UpdateUserRequest carries optional account changes.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Province *string `json:"province"`
	Branch   *string `json:"branch"`
	Active   *bool   `json:"active"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Province  *string   `json:"province,omitempty"`
	Branch    *string   `json:"branch,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a stored user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Province:  u.Province,
		Branch:    u.Branch,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
