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

// TaskCreateInput carries validated task fields.
type TaskCreateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	Category    string
	DueDate     *time.Time
}

// TaskService owns task CRUD and list queries.
type TaskService struct {
	tasks      repository.TaskRepository
	engine     *query.Engine[domain.Task]
	cache      *query.ResultCache
	dispatcher events.Dispatcher
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, cache *query.ResultCache, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{
		tasks:      tasks,
		engine:     newTaskEngine(),
		cache:      cache,
		dispatcher: dispatcher,
	}
}

func newTaskEngine() *query.Engine[domain.Task] {
	return query.NewEngine(query.Descriptor[domain.Task]{
		Owner: func(t domain.Task) string { return t.OwnerID },
		Fields: map[string]func(domain.Task) string{
			"status":   func(t domain.Task) string { return string(t.Status) },
			"priority": func(t domain.Task) string { return string(t.Priority) },
			"category": func(t domain.Task) string { return t.Category },
			"title":    func(t domain.Task) string { return t.Title },
		},
		Times: map[string]func(domain.Task) time.Time{
			"created_at": func(t domain.Task) time.Time { return t.CreatedAt },
			"updated_at": func(t domain.Task) time.Time { return t.UpdatedAt },
			"due_date": func(t domain.Task) time.Time {
				if t.DueDate == nil {
					return time.Time{}
				}
				return *t.DueDate
			},
		},
		Search: []func(domain.Task) string{
			func(t domain.Task) string { return t.Title },
			func(t domain.Task) string { return t.Description },
		},
	})
}

// Create inserts an owner-scoped task.
func (s *TaskService) Create(ctx context.Context, ownerID string, input TaskCreateInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Status == "" {
		input.Status = domain.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTaskCreated, task.ID, ownerID, nil)
	return task, nil
}

// List runs the query pipeline over a fresh snapshot; default-shape queries
// are served from the result cache within its TTL.
func (s *TaskService) List(ctx context.Context, actor Actor, params query.Params) (query.Result[domain.Task], error) {
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
			return query.Result[domain.Task]{}, err
		}
		return res.(query.Result[domain.Task]), nil
	}

	res, err := s.cache.GetOrCompute(actor.cacheKey("tasks"), compute)
	if err != nil {
		return query.Result[domain.Task]{}, err
	}
	return res.(query.Result[domain.Task]), nil
}

// Get returns a task visible to the actor.
func (s *TaskService) Get(ctx context.Context, actor Actor, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", map[string]any{"id": id})
		}
		return nil, err
	}
	if !actor.ViewAll && task.OwnerID != actor.ID {
		return nil, apperrors.NewNotFound("task", map[string]any{"id": id})
	}
	return task, nil
}

// Update mutates a task owned by the actor or covered by edit_all.
func (s *TaskService) Update(ctx context.Context, actor Actor, id string, input TaskCreateInput) (*domain.Task, error) {
	task, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(task.OwnerID) {
		return nil, apperrors.NewForbidden("cannot modify this task")
	}
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	oldStatus := task.Status
	task.Title = input.Title
	task.Description = input.Description
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.Category = input.Category
	task.DueDate = input.DueDate

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	if oldStatus != task.Status {
		s.publish(ctx, events.EventTaskStatusChanged, task.ID, actor.ID, events.TaskStatusChangedPayload{
			OldStatus: string(oldStatus),
			NewStatus: string(task.Status),
		})
	}
	return task, nil
}

// Delete removes a task owned by the actor or covered by edit_all.
func (s *TaskService) Delete(ctx context.Context, actor Actor, id string) error {
	task, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.canMutate(task.OwnerID) {
		return apperrors.NewForbidden("cannot delete this task")
	}
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("task", map[string]any{"id": id})
	}
	s.publish(ctx, events.EventTaskDeleted, id, actor.ID, nil)
	return nil
}

func (s *TaskService) snapshot(ctx context.Context, actor Actor) ([]domain.Task, error) {
	if actor.ViewAll {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListByOwner(ctx, actor.ID)
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, resourceID, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
}
