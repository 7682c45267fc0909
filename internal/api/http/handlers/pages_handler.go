package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workspace-service/internal/api/dto"
	"github.com/spec-kit/workspace-service/internal/auth"
	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/service"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// PagesHandler manages page endpoints.
type PagesHandler struct {
	service *service.PageService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(pageService *service.PageService) *PagesHandler {
	return &PagesHandler{service: pageService}
}

// Create POST /pages.
func (h *PagesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	page, err := h.service.Create(c.Context(), actorOf(principal), pageInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": pageSummary(page)})
}

// List GET /pages.
func (h *PagesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	result, err := h.service.List(c.Context(), actorOf(principal), parseListParams(c))
	if err != nil {
		return err
	}
	items := make([]dto.PageSummary, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, pageSummary(&result.Items[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": result.Pagination})
}

// Get GET /pages/:id.
func (h *PagesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page, err := h.service.Get(c.Context(), actorOf(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pageSummary(page)})
}

// Update PUT /pages/:id.
func (h *PagesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	page, err := h.service.Update(c.Context(), actorOf(principal), c.Params("id"), pageInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pageSummary(page)})
}

// Delete DELETE /pages/:id.
func (h *PagesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), actorOf(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "page deleted"}})
}

func pageInput(req dto.PageRequest) service.PageCreateInput {
	return service.PageCreateInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Category: req.Category,
		Status:   domain.PageStatus(req.Status),
	}
}
