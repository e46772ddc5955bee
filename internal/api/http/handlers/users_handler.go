package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/service"
)

// UsersHandler manages accounts on behalf of administrators.
type UsersHandler struct {
	service UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), actor, service.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
		Province: req.Province,
		Branch:   req.Branch,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "user created", fiber.Map{"data": dto.NewUserResponse(user)})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	filter := service.UserListFilter{
		Province: optionalQuery(c, "province"),
		Limit:    c.QueryInt("limit", 20),
		Offset:   c.QueryInt("offset", 0),
	}
	if role := optionalQuery(c, "role"); role != nil {
		r := domain.Role(*role)
		filter.Role = &r
	}
	users, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": items})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.UserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Province: req.Province,
		Branch:   req.Branch,
		Active:   req.Active,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	user, err := h.service.Update(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "user updated", fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "user deleted", nil)
}
