package permission

// Permission is one named grant. The set is closed; bit positions are part
// of the package contract only insofar as they stay below 64.
type Permission uint8

const (
	UserCreate Permission = iota
	UserRead
	UserUpdate
	UserDelete
	UserManage
	DashboardRead
	DashboardWrite
	DashboardAdmin
	DataRead
	DataWrite
	DataDelete
	AnalyticsRead
	AnalyticsExport
	SystemManage
	permissionCount
)

var permissionNames = [permissionCount]string{
	UserCreate:      "user.create",
	UserRead:        "user.read",
	UserUpdate:      "user.update",
	UserDelete:      "user.delete",
	UserManage:      "user.manage",
	DashboardRead:   "dashboard.read",
	DashboardWrite:  "dashboard.write",
	DashboardAdmin:  "dashboard.admin",
	DataRead:        "data.read",
	DataWrite:       "data.write",
	DataDelete:      "data.delete",
	AnalyticsRead:   "analytics.read",
	AnalyticsExport: "analytics.export",
	SystemManage:    "system.manage",
}

// String returns the dotted grant name, e.g. "dashboard.read".
func (p Permission) String() string {
	if p >= permissionCount {
		return "unknown"
	}
	return permissionNames[p]
}

// Valid reports whether p is a defined permission.
func (p Permission) Valid() bool {
	return p < permissionCount
}

// All returns every defined permission in declaration order.
func All() []Permission {
	out := make([]Permission, permissionCount)
	for i := range out {
		out[i] = Permission(i)
	}
	return out
}

// ParsePermission resolves a dotted grant name. The bool is false for
// unknown names.
func ParsePermission(name string) (Permission, bool) {
	for i, n := range permissionNames {
		if n == name {
			return Permission(i), true
		}
	}
	return permissionCount, false
}

// Mask is a permission set packed into a uint64, one bit per permission.
type Mask uint64

// Has reports whether the mask carries p.
func (m Mask) Has(p Permission) bool {
	if !p.Valid() {
		return false
	}
	return m&(1<<uint64(p)) != 0
}

// HasAll reports whether the mask carries every permission in ps. Empty ps
// is vacuously true.
func (m Mask) HasAll(ps ...Permission) bool {
	for _, p := range ps {
		if !m.Has(p) {
			return false
		}
	}
	return true
}

// HasAny reports whether the mask carries at least one permission in ps.
func (m Mask) HasAny(ps ...Permission) bool {
	for _, p := range ps {
		if m.Has(p) {
			return true
		}
	}
	return false
}

func maskOf(ps ...Permission) Mask {
	var m Mask
	for _, p := range ps {
		m |= 1 << uint64(p)
	}
	return m
}
