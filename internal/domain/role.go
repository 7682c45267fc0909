package domain

// Role enumerates the fixed set of workspace roles.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleUser           Role = "user"
	RoleDeveloper      Role = "developer"
	RoleDesigner       Role = "designer"
	RoleHR             Role = "hr"
	RoleMarketing      Role = "marketing"
	RoleFinance        Role = "finance"
	RoleBlogWriter     Role = "blog_writer"
	RoleSEOManager     Role = "seo_manager"
	RoleProjectManager Role = "project_manager"
	RoleModerator      Role = "moderator"
	RoleEditor         Role = "editor"
	RoleViewer         Role = "viewer"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin:          {},
	RoleUser:           {},
	RoleDeveloper:      {},
	RoleDesigner:       {},
	RoleHR:             {},
	RoleMarketing:      {},
	RoleFinance:        {},
	RoleBlogWriter:     {},
	RoleSEOManager:     {},
	RoleProjectManager: {},
	RoleModerator:      {},
	RoleEditor:         {},
	RoleViewer:         {},
}

// IsValid reports whether r is part of the fixed role enumeration.
// Unknown roles must be rejected at account creation, never accepted silently.
func (r Role) IsValid() bool {
	_, ok := knownRoles[r]
	return ok
}
