package service

import "github.com/spec-kit/workspace-service/internal/query"

// Actor carries the authenticated subject and its resolved capabilities.
// Handlers build it from the principal so services never re-derive role logic.
type Actor struct {
	ID      string
	ViewAll bool
	EditAll bool
	Publish bool
}

func (a Actor) viewer() query.Viewer {
	return query.Viewer{SubjectID: a.ID, ViewAll: a.ViewAll}
}

func (a Actor) canMutate(ownerID string) bool {
	return a.EditAll || a.ID == ownerID
}

// cacheKey scopes cached default-query results to the visible slice.
func (a Actor) cacheKey(resource string) string {
	if a.ViewAll {
		return resource + ":all"
	}
	return resource + ":" + a.ID
}
