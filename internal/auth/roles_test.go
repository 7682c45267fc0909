package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workspace-service/internal/domain"
	apperrors "github.com/spec-kit/workspace-service/pkg/util/errorutil"
)

func TestRoleHas(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		capability Capability
		want       bool
	}{
		{"admin has everything via all", domain.RoleAdmin, CapabilityManageUsers, true},
		{"admin has edit_all via all", domain.RoleAdmin, CapabilityEditAll, true},
		{"user can view own", domain.RoleUser, CapabilityViewOwn, true},
		{"user can edit own", domain.RoleUser, CapabilityEditOwn, true},
		{"user cannot view all", domain.RoleUser, CapabilityViewAll, false},
		{"user cannot manage users", domain.RoleUser, CapabilityManageUsers, false},
		{"project manager can view all", domain.RoleProjectManager, CapabilityViewAll, true},
		{"project manager cannot edit all", domain.RoleProjectManager, CapabilityEditAll, false},
		{"moderator can edit all", domain.RoleModerator, CapabilityEditAll, true},
		{"blog writer can publish pages", domain.RoleBlogWriter, CapabilityPublishPages, true},
		{"editor can publish pages", domain.RoleEditor, CapabilityPublishPages, true},
		{"developer cannot publish pages", domain.RoleDeveloper, CapabilityPublishPages, false},
		{"viewer can view own", domain.RoleViewer, CapabilityViewOwn, true},
		{"viewer cannot edit own", domain.RoleViewer, CapabilityEditOwn, false},
		{"unknown role has nothing", domain.Role("ghost"), CapabilityViewOwn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleHas(tt.role, tt.capability))
		})
	}
}

func TestAuthorize(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.Issue(Identity{SubjectID: "user-1", Email: "a@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		_, err := Authorize(tm, "", CapabilityViewOwn)
		assertDomainCode(t, err, "UNAUTHORIZED")
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		_, err := Authorize(tm, "garbage", CapabilityViewOwn)
		assertDomainCode(t, err, "UNAUTHORIZED")
	})

	t.Run("capability miss is forbidden", func(t *testing.T) {
		_, err := Authorize(tm, token, CapabilityManageUsers)
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("valid token with capability passes", func(t *testing.T) {
		identity, err := Authorize(tm, token, CapabilityViewOwn)
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.SubjectID)
		assert.Equal(t, domain.RoleUser, identity.Role)
	})
}

func TestGuardSelfDelete(t *testing.T) {
	identity := &Identity{SubjectID: "admin-1", Role: domain.RoleAdmin}

	err := GuardSelfDelete(identity, "admin-1")
	assertDomainCode(t, err, "FORBIDDEN")

	assert.NoError(t, GuardSelfDelete(identity, "user-2"))
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, code, domainErr.Code)
}
