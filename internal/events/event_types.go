package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTaskDeleted       EventType = "task_deleted"
	EventProjectCreated    EventType = "project_created"
	EventProjectDeleted    EventType = "project_deleted"
	EventPagePublished     EventType = "page_published"
	EventUserRegistered    EventType = "user_registered"
	EventUserDeleted       EventType = "user_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// PagePublishedPayload payload.
type PagePublishedPayload struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
