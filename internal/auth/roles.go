package auth

import (
	"github.com/spec-kit/workspace-service/internal/domain"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

// Capability is a named permission granted to a role.
type Capability string

const (
	CapabilityAll          Capability = "all"
	CapabilityViewOwn      Capability = "view_own"
	CapabilityEditOwn      Capability = "edit_own"
	CapabilityViewAll      Capability = "view_all"
	CapabilityEditAll      Capability = "edit_all"
	CapabilityPublishPages Capability = "publish_pages"
	CapabilityManageUsers  Capability = "manage_users"
)

// capabilitySets is the static role catalog. Changing it is a deployment-time
// decision, never a runtime API.
var capabilitySets = map[domain.Role]map[Capability]struct{}{
	domain.RoleAdmin:          capSet(CapabilityAll),
	domain.RoleUser:           capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleDeveloper:      capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleDesigner:       capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleHR:             capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleMarketing:      capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleFinance:        capSet(CapabilityViewOwn, CapabilityEditOwn),
	domain.RoleBlogWriter:     capSet(CapabilityViewOwn, CapabilityEditOwn, CapabilityPublishPages),
	domain.RoleSEOManager:     capSet(CapabilityViewOwn, CapabilityEditOwn, CapabilityPublishPages),
	domain.RoleEditor:         capSet(CapabilityViewOwn, CapabilityEditOwn, CapabilityPublishPages),
	domain.RoleProjectManager: capSet(CapabilityViewOwn, CapabilityEditOwn, CapabilityViewAll),
	domain.RoleModerator:      capSet(CapabilityViewOwn, CapabilityEditOwn, CapabilityViewAll, CapabilityEditAll),
	domain.RoleViewer:         capSet(CapabilityViewOwn),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// RoleHas reports whether the role's capability set contains the capability.
// The "all" capability short-circuits every check.
func RoleHas(role domain.Role, capability Capability) bool {
	set, ok := capabilitySets[role]
	if !ok {
		return false
	}
	if _, all := set[CapabilityAll]; all {
		return true
	}
	_, has := set[capability]
	return has
}

// Authorize verifies the raw token and checks the required capability.
// Verification failures map to Unauthorized, capability misses to Forbidden.
func Authorize(tm *TokenManager, rawToken string, required Capability) (*Identity, error) {
	if rawToken == "" {
		return nil, apperrors.NewUnauthorized("missing token")
	}
	identity, err := tm.Verify(rawToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	if required != "" && !RoleHas(identity.Role, required) {
		return nil, apperrors.NewForbidden("insufficient capability")
	}
	return identity, nil
}

// GuardSelfDelete rejects an irreversible delete aimed at the caller's own
// account, so an admin cannot remove themself.
func GuardSelfDelete(identity *Identity, targetID string) error {
	if identity != nil && identity.SubjectID == targetID {
		return apperrors.NewForbidden("cannot delete own account")
	}
	return nil
}
