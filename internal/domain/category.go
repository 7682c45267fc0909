package domain

import "time"

// Category labels tasks and pages within one owner's workspace.
type Category struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
