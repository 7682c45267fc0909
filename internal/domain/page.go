package domain

import "time"

// PageStatus enumerates publication states for pages.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is an owner-scoped content document.
type Page struct {
	ID        string
	OwnerID   string
	Title     string
	Slug      string
	Content   string
	Category  string
	Status    PageStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
