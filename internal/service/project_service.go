package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/events"
	"github.com/spec-kit/workspace-service/internal/query"
	"github.com/spec-kit/workspace-service/internal/repository"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// ProjectCreateInput carries validated project fields.
type ProjectCreateInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	Priority    domain.TaskPriority
	Members     []string
}

// ProjectService owns project CRUD and list queries.
type ProjectService struct {
	projects   repository.ProjectRepository
	engine     *query.Engine[domain.Project]
	cache      *query.ResultCache
	dispatcher events.Dispatcher
}

// NewProjectService builds the service.
func NewProjectService(projects repository.ProjectRepository, cache *query.ResultCache, dispatcher events.Dispatcher) *ProjectService {
	return &ProjectService{
		projects:   projects,
		engine:     newProjectEngine(),
		cache:      cache,
		dispatcher: dispatcher,
	}
}

func newProjectEngine() *query.Engine[domain.Project] {
	return query.NewEngine(query.Descriptor[domain.Project]{
		Owner:  func(p domain.Project) string { return p.OwnerID },
		Shared: func(p domain.Project) []string { return p.Members },
		Fields: map[string]func(domain.Project) string{
			"status":   func(p domain.Project) string { return string(p.Status) },
			"priority": func(p domain.Project) string { return string(p.Priority) },
			"name":     func(p domain.Project) string { return p.Name },
		},
		Times: map[string]func(domain.Project) time.Time{
			"created_at": func(p domain.Project) time.Time { return p.CreatedAt },
			"updated_at": func(p domain.Project) time.Time { return p.UpdatedAt },
		},
		Search: []func(domain.Project) string{
			func(p domain.Project) string { return p.Name },
			func(p domain.Project) string { return p.Description },
		},
	})
}

// Create inserts an owner-scoped project.
func (s *ProjectService) Create(ctx context.Context, ownerID string, input ProjectCreateInput) (*domain.Project, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.Status == "" {
		input.Status = domain.ProjectStatusActive
	}
	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	}

	project := &domain.Project{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Members:     input.Members,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventProjectCreated, project.ID, ownerID)
	return project, nil
}

// List runs the query pipeline; default-shape queries hit the result cache.
func (s *ProjectService) List(ctx context.Context, actor Actor, params query.Params) (query.Result[domain.Project], error) {
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
			return query.Result[domain.Project]{}, err
		}
		return res.(query.Result[domain.Project]), nil
	}

	res, err := s.cache.GetOrCompute(actor.cacheKey("projects"), compute)
	if err != nil {
		return query.Result[domain.Project]{}, err
	}
	return res.(query.Result[domain.Project]), nil
}

// Get returns a project visible to the actor (owned or shared).
func (s *ProjectService) Get(ctx context.Context, actor Actor, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return nil, err
	}
	if !actor.ViewAll && project.OwnerID != actor.ID && !project.SharedWith(actor.ID) {
		return nil, apperrors.NewNotFound("project", map[string]any{"id": id})
	}
	return project, nil
}

// Update mutates a project; members may view but only the owner or an
// edit_all holder may mutate.
func (s *ProjectService) Update(ctx context.Context, actor Actor, id string, input ProjectCreateInput) (*domain.Project, error) {
	project, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(project.OwnerID) {
		return nil, apperrors.NewForbidden("cannot modify this project")
	}
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	project.Name = input.Name
	project.Description = input.Description
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.Priority != "" {
		project.Priority = input.Priority
	}
	if input.Members != nil {
		project.Members = input.Members
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project owned by the actor or covered by edit_all.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, id string) error {
	project, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.canMutate(project.OwnerID) {
		return apperrors.NewForbidden("cannot delete this project")
	}
	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("project", map[string]any{"id": id})
	}
	s.publish(ctx, events.EventProjectDeleted, id, actor.ID)
	return nil
}

func (s *ProjectService) snapshot(ctx context.Context, actor Actor) ([]domain.Project, error) {
	if actor.ViewAll {
		return s.projects.ListAll(ctx)
	}
	return s.projects.ListByOwner(ctx, actor.ID)
}

func (s *ProjectService) publish(ctx context.Context, eventType events.EventType, resourceID, actorID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
	})
}
