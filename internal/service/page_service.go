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

// PageCreateInput carries validated page fields.
type PageCreateInput struct {
	Title    string
	Slug     string
	Content  string
	Category string
	Status   domain.PageStatus
}

// PageService owns page CRUD and list queries.
type PageService struct {
	pages      repository.PageRepository
	engine     *query.Engine[domain.Page]
	cache      *query.ResultCache
	dispatcher events.Dispatcher
}

// NewPageService builds the service.
func NewPageService(pages repository.PageRepository, cache *query.ResultCache, dispatcher events.Dispatcher) *PageService {
	return &PageService{
		pages:      pages,
		engine:     newPageEngine(),
		cache:      cache,
		dispatcher: dispatcher,
	}
}

func newPageEngine() *query.Engine[domain.Page] {
	return query.NewEngine(query.Descriptor[domain.Page]{
		Owner: func(p domain.Page) string { return p.OwnerID },
		Fields: map[string]func(domain.Page) string{
			"status":   func(p domain.Page) string { return string(p.Status) },
			"category": func(p domain.Page) string { return p.Category },
			"title":    func(p domain.Page) string { return p.Title },
		},
		Times: map[string]func(domain.Page) time.Time{
			"created_at": func(p domain.Page) time.Time { return p.CreatedAt },
			"updated_at": func(p domain.Page) time.Time { return p.UpdatedAt },
		},
		Search: []func(domain.Page) string{
			func(p domain.Page) string { return p.Title },
			func(p domain.Page) string { return p.Content },
		},
	})
}

// Create inserts an owner-scoped page. Publishing on create requires the
// publish capability.
func (s *PageService) Create(ctx context.Context, actor Actor, input PageCreateInput) (*domain.Page, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Status == "" {
		input.Status = domain.PageStatusDraft
	}
	if input.Status == domain.PageStatusPublished && !actor.Publish && !actor.EditAll {
		return nil, apperrors.NewForbidden("publish capability required")
	}

	page := &domain.Page{
		OwnerID:  actor.ID,
		Title:    input.Title,
		Slug:     input.Slug,
		Content:  input.Content,
		Category: input.Category,
		Status:   input.Status,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		return nil, err
	}
	if page.Status == domain.PageStatusPublished {
		s.publishEvent(ctx, page, actor.ID)
	}
	return page, nil
}

// List runs the query pipeline; default-shape queries hit the result cache.
func (s *PageService) List(ctx context.Context, actor Actor, params query.Params) (query.Result[domain.Page], error) {
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
			return query.Result[domain.Page]{}, err
		}
		return res.(query.Result[domain.Page]), nil
	}

	res, err := s.cache.GetOrCompute(actor.cacheKey("pages"), compute)
	if err != nil {
		return query.Result[domain.Page]{}, err
	}
	return res.(query.Result[domain.Page]), nil
}

// Get returns a page visible to the actor.
func (s *PageService) Get(ctx context.Context, actor Actor, id string) (*domain.Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("page", map[string]any{"id": id})
		}
		return nil, err
	}
	if !actor.ViewAll && page.OwnerID != actor.ID {
		return nil, apperrors.NewNotFound("page", map[string]any{"id": id})
	}
	return page, nil
}

// Update mutates a page. Moving a page to published requires the publish
// capability.
func (s *PageService) Update(ctx context.Context, actor Actor, id string, input PageCreateInput) (*domain.Page, error) {
	page, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.canMutate(page.OwnerID) {
		return nil, apperrors.NewForbidden("cannot modify this page")
	}
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	wasPublished := page.Status == domain.PageStatusPublished
	page.Title = input.Title
	page.Slug = input.Slug
	page.Content = input.Content
	page.Category = input.Category
	if input.Status != "" {
		if input.Status == domain.PageStatusPublished && !wasPublished && !actor.Publish && !actor.EditAll {
			return nil, apperrors.NewForbidden("publish capability required")
		}
		page.Status = input.Status
	}

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, err
	}
	if !wasPublished && page.Status == domain.PageStatusPublished {
		s.publishEvent(ctx, page, actor.ID)
	}
	return page, nil
}

// Delete removes a page owned by the actor or covered by edit_all.
func (s *PageService) Delete(ctx context.Context, actor Actor, id string) error {
	page, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.canMutate(page.OwnerID) {
		return apperrors.NewForbidden("cannot delete this page")
	}
	deleted, err := s.pages.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("page", map[string]any{"id": id})
	}
	return nil
}

func (s *PageService) snapshot(ctx context.Context, actor Actor) ([]domain.Page, error) {
	if actor.ViewAll {
		return s.pages.ListAll(ctx)
	}
	return s.pages.ListByOwner(ctx, actor.ID)
}

func (s *PageService) publishEvent(ctx context.Context, page *domain.Page, actorID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventPagePublished,
		ResourceID: page.ID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    events.PagePublishedPayload{Slug: page.Slug, Title: page.Title},
	})
}
