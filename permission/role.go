package permission

import "fmt"

// Role is one of the three fixed roles. The zero value RoleUnknown is never
// a valid assignment; it exists so an unresolved caller fails closed.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleManager
	RoleViewer
)

var roleNames = map[Role]string{
	RoleAdmin:   "ADMIN",
	RoleManager: "MANAGER",
	RoleViewer:  "VIEWER",
}

// Static grant table. ADMIN holds every grant; MANAGER operates dashboards
// and data but cannot manage users or the system; VIEWER is read-only on
// dashboards and data.
var roleMasks = map[Role]Mask{
	RoleAdmin: maskOf(All()...),
	RoleManager: maskOf(
		UserRead,
		DashboardRead, DashboardWrite,
		DataRead, DataWrite,
		AnalyticsRead, AnalyticsExport,
	),
	RoleViewer: maskOf(DashboardRead, DataRead),
}

// String returns the canonical upper-case role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Mask returns the role's grants. RoleUnknown has none.
func (r Role) Mask() Mask {
	return roleMasks[r]
}

// Has reports whether the role carries the permission.
func (r Role) Has(p Permission) bool {
	return r.Mask().Has(p)
}

// ParseRole resolves a role name, case-sensitively on the canonical
// upper-case form.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", name)
}

// Roles returns the assignable roles in privilege order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleViewer}
}
