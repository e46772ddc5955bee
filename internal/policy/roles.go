// Package policy decides who may do what to which shipment. Every function is a
// pure predicate over the actor and shipment snapshot handed to it.
package policy

import "github.com/spec-kit/shipment-service/internal/domain"

// Action names a coarse capability gated by role.
type Action string

const (
	ActionManageUsers          Action = "manage-users"
	ActionDeleteProduct        Action = "delete-product"
	ActionViewAuditLog         Action = "view-audit-log"
	ActionRunStatusUpdater     Action = "run-status-updater"
	ActionCreateShipment       Action = "create-shipment"
	ActionViewShipments        Action = "view-shipments"
	ActionManageProducts       Action = "manage-products"
	ActionUpdateShipmentStatus Action = "update-shipment-status"
	ActionUpdateShipmentBasic  Action = "update-shipment-basic"
)

var adminOnly = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}

var roleTable = map[Action][]domain.Role{
	ActionManageUsers:          adminOnly,
	ActionDeleteProduct:        adminOnly,
	ActionViewAuditLog:         adminOnly,
	ActionRunStatusUpdater:     adminOnly,
	ActionCreateShipment:       domain.AllRoles,
	ActionViewShipments:        domain.AllRoles,
	ActionManageProducts:       domain.AllRoles,
	ActionUpdateShipmentStatus: {domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser, domain.RoleDriver},
	ActionUpdateShipmentBasic:  domain.AllRoles,
}

// AllowedRoles returns the roles granted action. Unknown actions get an empty set.
func AllowedRoles(action Action) map[domain.Role]struct{} {
	roles := roleTable[action]
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Can reports whether role holds action.
func Can(role domain.Role, action Action) bool {
	_, ok := AllowedRoles(action)[role]
	return ok
}
