package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workspace-service/internal/api/dto"
	"github.com/spec-kit/workspace-service/internal/auth"
	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/service"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// Create POST /projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Create(c.Context(), principal.User.ID, projectInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": projectSummary(project)})
}

// List GET /projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	result, err := h.service.List(c.Context(), actorOf(principal), parseListParams(c))
	if err != nil {
		return err
	}
	items := make([]dto.ProjectSummary, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, projectSummary(&result.Items[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": result.Pagination})
}

// Get GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	project, err := h.service.Get(c.Context(), actorOf(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectSummary(project)})
}

// Update PUT /projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Update(c.Context(), actorOf(principal), c.Params("id"), projectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectSummary(project)})
}

// Delete DELETE /projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), actorOf(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "project deleted"}})
}

func projectInput(req dto.ProjectRequest) service.ProjectCreateInput {
	return service.ProjectCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		Members:     req.Members,
	}
}
