package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/shipment-service/internal/domain"
)

func TestAllowedRoles_AdminsHoldEveryAdministrativeAction(t *testing.T) {
	for _, action := range []Action{ActionManageUsers, ActionDeleteProduct, ActionViewAuditLog, ActionRunStatusUpdater} {
		roles := AllowedRoles(action)
		assert.Contains(t, roles, domain.RoleSuperAdmin, action)
		assert.Contains(t, roles, domain.RoleAdmin, action)
		assert.NotContains(t, roles, domain.RoleUser, action)
		assert.NotContains(t, roles, domain.RoleClient, action)
	}
}

func TestAllowedRoles_UnknownActionFailsClosed(t *testing.T) {
	assert.Empty(t, AllowedRoles(Action("export-everything")))
	assert.False(t, Can(domain.RoleSuperAdmin, Action("export-everything")))
}

func TestCan_StatusUpdateExcludesClients(t *testing.T) {
	assert.True(t, Can(domain.RoleDriver, ActionUpdateShipmentStatus))
	assert.True(t, Can(domain.RoleUser, ActionUpdateShipmentStatus))
	assert.False(t, Can(domain.RoleClient, ActionUpdateShipmentStatus))
	assert.True(t, Can(domain.RoleClient, ActionUpdateShipmentBasic))
}

func TestAllowedRoles_ReturnsFreshSet(t *testing.T) {
	roles := AllowedRoles(ActionManageUsers)
	delete(roles, domain.RoleAdmin)

	assert.True(t, Can(domain.RoleAdmin, ActionManageUsers))
}
