package user

import "time"

type Role string

const (
	RoleAdmin            Role = "admin"             // Full access
	RoleHR               Role = "hr"                // Manages interns, final approver
	RoleSupervisor       Role = "supervisor"        // Line manager, first approver for Talentern
	RoleIntern           Role = "intern"            // Acts on own records only
	RolePersonnelAffairs Role = "personnel_affairs" // Timesheet processing, read access
)

func ValidRoles() []string {
	return []string{
		string(RoleAdmin),
		string(RoleHR),
		string(RoleSupervisor),
		string(RoleIntern),
		string(RolePersonnelAffairs),
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Roles        []Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID   string
	Email    string
	FullName string
	Roles    []Role

	// InternID links the account to an Intern record, if any.
	InternID *string
}

func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}

// IsElevated reports whether the actor may act on other interns' records.
func (a Actor) IsElevated() bool {
	return a.HasAnyRole(RoleAdmin, RoleHR, RoleSupervisor)
}

// IsInternOnly reports whether the actor's only standing is their own intern record.
func (a Actor) IsInternOnly() bool {
	return a.HasRole(RoleIntern) && !a.HasAnyRole(RoleAdmin, RoleHR, RoleSupervisor, RolePersonnelAffairs)
}

func (a Actor) IsPersonnelAffairsOnly() bool {
	return a.HasRole(RolePersonnelAffairs) && !a.HasAnyRole(RoleAdmin, RoleHR, RoleSupervisor, RoleIntern)
}

func (a Actor) OwnsIntern(internID string) bool {
	return a.InternID != nil && internID != "" && *a.InternID == internID
}

func (a Actor) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Email
}
