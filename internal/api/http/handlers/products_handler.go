package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/service"
)

// ProductsHandler serves product endpoints.
type ProductsHandler struct {
	service ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService ProductService) *ProductsHandler {
	return &ProductsHandler{service: productService}
}

// Create POST /shipments/:tracking/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.AddProduct(c.UserContext(), actor, c.Params("tracking"), service.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		Weight:          req.Weight,
		Price:           req.Price,
		SenderName:      req.SenderName,
		SenderPhone:     req.SenderPhone,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ReceiverAddress: req.ReceiverAddress,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "product added", fiber.Map{"data": dto.NewProductResponse(product)})
}

// List GET /shipments/:tracking/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	products, err := h.service.ListProducts(c.UserContext(), actor, c.Params("tracking"))
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": items})
}

// Update PATCH /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), actor, c.Params("id"), service.ProductUpdateInput{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		Weight:          req.Weight,
		Price:           req.Price,
		SenderName:      req.SenderName,
		SenderPhone:     req.SenderPhone,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ReceiverAddress: req.ReceiverAddress,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "product updated", fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "product deleted", nil)
}
