package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workspace-service/internal/api/dto"
	"github.com/spec-kit/workspace-service/internal/auth"
	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/query"
	"github.com/spec-kit/workspace-service/internal/service"
)

// formatTime renders dates in the canonical wire form.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// actorOf resolves the principal's capabilities once so services never
// re-derive role logic.
func actorOf(principal *auth.Principal) service.Actor {
	role := principal.User.Role
	return service.Actor{
		ID:      principal.User.ID,
		ViewAll: auth.RoleHas(role, auth.CapabilityViewAll),
		EditAll: auth.RoleHas(role, auth.CapabilityEditAll),
		Publish: auth.RoleHas(role, auth.CapabilityPublishPages),
	}
}

// parseListParams reads the common list-query parameters.
func parseListParams(c *fiber.Ctx) query.Params {
	return query.Params{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
}

func queryInt(c *fiber.Ctx, key string) int {
	val := c.Query(key)
	if val == "" {
		return 0
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return parsed
}

func userSummary(user *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatTime(user.UpdatedAt),
	}
}

func taskSummary(task *domain.Task) dto.TaskSummary {
	return dto.TaskSummary{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Category:    task.Category,
		DueDate:     formatTimePtr(task.DueDate),
		CreatedAt:   formatTime(task.CreatedAt),
		UpdatedAt:   formatTime(task.UpdatedAt),
	}
}

func projectSummary(project *domain.Project) dto.ProjectSummary {
	members := project.Members
	if members == nil {
		members = []string{}
	}
	return dto.ProjectSummary{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Status:      string(project.Status),
		Priority:    string(project.Priority),
		Members:     members,
		CreatedAt:   formatTime(project.CreatedAt),
		UpdatedAt:   formatTime(project.UpdatedAt),
	}
}

func categorySummary(category *domain.Category) dto.CategorySummary {
	return dto.CategorySummary{
		ID:          category.ID,
		OwnerID:     category.OwnerID,
		Name:        category.Name,
		Description: category.Description,
		Color:       category.Color,
		CreatedAt:   formatTime(category.CreatedAt),
		UpdatedAt:   formatTime(category.UpdatedAt),
	}
}

func pageSummary(page *domain.Page) dto.PageSummary {
	return dto.PageSummary{
		ID:        page.ID,
		OwnerID:   page.OwnerID,
		Title:     page.Title,
		Slug:      page.Slug,
		Content:   page.Content,
		Category:  page.Category,
		Status:    string(page.Status),
		CreatedAt: formatTime(page.CreatedAt),
		UpdatedAt: formatTime(page.UpdatedAt),
	}
}
