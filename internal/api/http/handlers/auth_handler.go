package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/service"
)

// AuthHandler exposes signup, login and the caller's profile.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, token, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Province: req.Province,
		Branch:   req.Branch,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "registered", fiber.Map{"data": authResponse(user, token)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, token, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": authResponse(user, token)})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	user, err := h.service.Me(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": dto.NewUserResponse(user)})
}

func authResponse(user *domain.User, token domain.Token) dto.AuthResponse {
	return dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt, User: dto.NewUserResponse(user)}
}
