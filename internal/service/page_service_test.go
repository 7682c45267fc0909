package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workspace-service/internal/domain"
	"github.com/spec-kit/workspace-service/internal/repository"
)

func TestPageService_PublishOnCreateRequiresCapability(t *testing.T) {
	svc := NewPageService(repository.NewMemoryPageRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Actor{ID: "dev-1"}, PageCreateInput{
		Title:  "Launch notes",
		Status: domain.PageStatusPublished,
	})
	requireDomainCode(t, err, "FORBIDDEN")

	page, err := svc.Create(ctx, Actor{ID: "writer-1", Publish: true}, PageCreateInput{
		Title:  "Launch notes",
		Slug:   "launch-notes",
		Status: domain.PageStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PageStatusPublished, page.Status)
}

func TestPageService_CreateDefaultsToDraft(t *testing.T) {
	svc := NewPageService(repository.NewMemoryPageRepository(), nil, nil)

	page, err := svc.Create(context.Background(), Actor{ID: "dev-1"}, PageCreateInput{Title: "WIP"})
	require.NoError(t, err)
	assert.Equal(t, domain.PageStatusDraft, page.Status)
}

func TestPageService_PublishTransitionRequiresCapability(t *testing.T) {
	svc := NewPageService(repository.NewMemoryPageRepository(), nil, nil)
	ctx := context.Background()

	owner := Actor{ID: "dev-1"}
	page, err := svc.Create(ctx, owner, PageCreateInput{Title: "Guide", Slug: "guide"})
	require.NoError(t, err)

	// The owner may edit the draft but not flip it to published.
	_, err = svc.Update(ctx, owner, page.ID, PageCreateInput{
		Title:  "Guide",
		Slug:   "guide",
		Status: domain.PageStatusPublished,
	})
	requireDomainCode(t, err, "FORBIDDEN")

	// edit_all stands in for the publish capability.
	moderator := Actor{ID: "mod-1", ViewAll: true, EditAll: true}
	published, err := svc.Update(ctx, moderator, page.ID, PageCreateInput{
		Title:  "Guide",
		Slug:   "guide",
		Status: domain.PageStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PageStatusPublished, published.Status)

	// Editing an already-published page needs no publish capability, as long
	// as the actor can mutate it.
	_, err = svc.Update(ctx, Actor{ID: "dev-1", ViewAll: true, EditAll: true}, page.ID, PageCreateInput{
		Title:  "Guide v2",
		Slug:   "guide",
		Status: domain.PageStatusPublished,
	})
	assert.NoError(t, err)
}
