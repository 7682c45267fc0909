package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/query"
	"github.com/spec-kit/workspace-service/internal/repository"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// CategoryCreateInput carries validated category fields.
type CategoryCreateInput struct {
	Name        string
	Description string
	Color       string
}

// CategoryService owns category CRUD and list queries.
type CategoryService struct {
	categories repository.CategoryRepository
	engine     *query.Engine[domain.Category]
	cache      *query.ResultCache
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository, cache *query.ResultCache) *CategoryService {
	return &CategoryService{
		categories: categories,
		engine:     newCategoryEngine(),
		cache:      cache,
	}
}

func newCategoryEngine() *query.Engine[domain.Category] {
	return query.NewEngine(query.Descriptor[domain.Category]{
		Owner: func(c domain.Category) string { return c.OwnerID },
		Fields: map[string]func(domain.Category) string{
			"name": func(c domain.Category) string { return c.Name },
		},
		Times: map[string]func(domain.Category) time.Time{
			"created_at": func(c domain.Category) time.Time { return c.CreatedAt },
			"updated_at": func(c domain.Category) time.Time { return c.UpdatedAt },
		},
		Search: []func(domain.Category) string{
			func(c domain.Category) string { return c.Name },
			func(c domain.Category) string { return c.Description },
		},
	})
}

// Create inserts an owner-scoped category.
func (s *CategoryService) Create(ctx context.Context, ownerID string, input CategoryCreateInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	category := &domain.Category{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List runs the query pipeline; default-shape queries hit the result cache.
func (s *CategoryService) List(ctx context.Context, actor Actor, params query.Params) (query.Result[domain.Category], error) {
	compute := func() (any, error) {
		snapshot, err := s.snapshot(ctx, actor)
		if err != nil {
			return nil, err
		}
		return s.engine.Run(snapshot, actor.viewer(), params), nil
	}

	if s.cache == nil || !params.IsDefault() {
		res, err := compute()
		if err != nil {
			return query.Result[domain.Category]{}, err
		}
		return res.(query.Result[domain.Category]), nil
	}

	res, err := s.cache.GetOrCompute(actor.cacheKey("categories"), compute)
	if err != nil {
		return query.Result[domain.Category]{}, err
	}
	return res.(query.Result[domain.Category]), nil
}

// Get returns a category visible to the actor.
func (s *CategoryService) Get(ctx context.Context, actor Actor, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, err
	}
	if !actor.ViewAll && category.OwnerID != actor.ID {
		return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
	}
	return category, nil
}

// Update mutates a category owned by the actor or covered by edit_all.
func (s *CategoryService) Update(ctx context.Context, actor Actor, id string, input CategoryCreateInput) (*domain.Category, error) {
	category, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(category.OwnerID) {
		return nil, apperrors.NewForbidden("cannot modify this category")
	}
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Color = input.Color

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category owned by the actor or covered by edit_all.
func (s *CategoryService) Delete(ctx context.Context, actor Actor, id string) error {
	category, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.canMutate(category.OwnerID) {
		return apperrors.NewForbidden("cannot delete this category")
	}
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("category", map[string]any{"id": id})
	}
	return nil
}

func (s *CategoryService) snapshot(ctx context.Context, actor Actor) ([]domain.Category, error) {
	if actor.ViewAll {
		return s.categories.ListAll(ctx)
	}
	return s.categories.ListByOwner(ctx, actor.ID)
}
