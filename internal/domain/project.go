package domain

import "time"

// ProjectStatus enumerates lifecycle states for projects.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project is an owner-scoped container that may be shared with other
// subjects through its member list.
type Project struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Status      ProjectStatus
	Priority    TaskPriority
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SharedWith reports whether the given subject is on the member list.
func (p *Project) SharedWith(subjectID string) bool {
	for _, m := range p.Members {
		if m == subjectID {
			return true
		}
	}
	return false
}
