package user

import (
	"fmt"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
)

type Permission string

const (
	// Leave requests
	PermissionLeaveCreate Permission = "leave.create"
	PermissionLeaveView   Permission = "leave.view"
	PermissionLeaveEdit   Permission = "leave.edit"
	PermissionLeaveDecide Permission = "leave.decide" // approve, reject, request revision
	PermissionLeaveDelete Permission = "leave.delete"

	// Timesheets
	PermissionTimesheetCreate     Permission = "timesheet.create"
	PermissionTimesheetView       Permission = "timesheet.view"
	PermissionTimesheetDecide     Permission = "timesheet.decide"
	PermissionTimesheetEditDetail Permission = "timesheet.edit_detail"
	PermissionTimesheetDelete     Permission = "timesheet.delete"

	// Interns
	PermissionInternView   Permission = "intern.view"
	PermissionInternManage Permission = "intern.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to the permissions they grant on any intern's records.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionLeaveCreate,
		PermissionLeaveView,
		PermissionLeaveEdit,
		PermissionLeaveDecide,
		PermissionLeaveDelete,
		PermissionTimesheetCreate,
		PermissionTimesheetView,
		PermissionTimesheetDecide,
		PermissionTimesheetEditDetail,
		PermissionTimesheetDelete,
		PermissionInternView,
		PermissionInternManage,
		PermissionReportsView,
		PermissionUserManage,
	},
	RoleHR: {
		PermissionLeaveCreate,
		PermissionLeaveView,
		PermissionLeaveEdit,
		PermissionLeaveDecide,
		PermissionTimesheetCreate,
		PermissionTimesheetView,
		PermissionTimesheetDecide,
		PermissionTimesheetEditDetail,
		PermissionInternView,
		PermissionInternManage,
		PermissionReportsView,
	},
	RoleSupervisor: {
		PermissionLeaveCreate,
		PermissionLeaveView,
		PermissionLeaveEdit,
		PermissionLeaveDecide,
		PermissionTimesheetCreate,
		PermissionTimesheetView,
		PermissionTimesheetDecide,
		PermissionTimesheetEditDetail,
		PermissionInternView,
		PermissionReportsView,
	},
	RolePersonnelAffairs: {
		PermissionLeaveView,
		PermissionTimesheetView,
		PermissionTimesheetDecide,
		PermissionTimesheetEditDetail,
		PermissionInternView,
		PermissionReportsView,
	},
}

// OwnerPermissions are granted to an intern on records of their own intern profile.
var OwnerPermissions = []Permission{
	PermissionLeaveCreate,
	PermissionLeaveView,
	PermissionLeaveEdit,
	PermissionLeaveDelete,
	PermissionTimesheetView,
	PermissionTimesheetEditDetail,
	PermissionInternView,
}

// Resource describes the record an action targets. Zero values mean the
// action does not concern a particular intern or state.
type Resource struct {
	OwnerInternID string
	Status        approval.Status
}

// HasPermission checks a role grant without resource conditions.
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyRolePermission reports whether one of the actor's roles grants
// permission on every intern's records, not just the actor's own.
func HasAnyRolePermission(actor Actor, permission Permission) bool {
	for _, role := range actor.Roles {
		if HasPermission(role, permission) {
			return true
		}
	}
	return false
}

// Can is the single authorization decision: actor roles, action and the
// targeted resource in, allow or deny out.
func Can(actor Actor, permission Permission, res Resource) bool {
	for _, role := range actor.Roles {
		if HasPermission(role, permission) && roleStateAllows(role, permission, res.Status) {
			return true
		}
	}

	if res.OwnerInternID == "" || !actor.OwnsIntern(res.OwnerInternID) {
		return false
	}
	for _, p := range OwnerPermissions {
		if p == permission {
			return ownerStateAllows(permission, res.Status)
		}
	}
	return false
}

// Authorize is Can returning ErrInsufficientPermissions on deny.
func Authorize(actor Actor, permission Permission, res Resource) error {
	if Can(actor, permission, res) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInsufficientPermissions, permission)
}

func roleStateAllows(role Role, permission Permission, status approval.Status) bool {
	if permission != PermissionTimesheetEditDetail || status == "" {
		return true
	}
	if role == RoleSupervisor {
		return status == approval.StatusPending || status == approval.StatusRevision || status == approval.StatusApproved
	}
	return status != approval.StatusApproved
}

func ownerStateAllows(permission Permission, status approval.Status) bool {
	if permission == PermissionLeaveDelete {
		return status == approval.StatusPending
	}
	return true
}
