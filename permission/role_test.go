package permission

import "testing"

func TestRoleGrantMatrix(t *testing.T) {
	grants := map[Role][]Permission{
		RoleAdmin: All(),
		RoleManager: {
			UserRead,
			DashboardRead, DashboardWrite,
			DataRead, DataWrite,
			AnalyticsRead, AnalyticsExport,
		},
		RoleViewer: {DashboardRead, DataRead},
	}

	for role, allowed := range grants {
		want := make(map[Permission]bool, len(allowed))
		for _, p := range allowed {
			want[p] = true
		}
		for _, p := range All() {
			if got := role.Has(p); got != want[p] {
				t.Errorf("%s.Has(%s) = %v, want %v", role, p, got, want[p])
			}
		}
	}
}

func TestManagerCannotManage(t *testing.T) {
	for _, p := range []Permission{UserCreate, UserUpdate, UserDelete, UserManage, DashboardAdmin, DataDelete, SystemManage} {
		if RoleManager.Has(p) {
			t.Errorf("manager must not hold %s", p)
		}
	}
}

func TestViewerIsReadOnly(t *testing.T) {
	for _, p := range []Permission{DashboardWrite, DataWrite, AnalyticsRead, AnalyticsExport, UserRead} {
		if RoleViewer.Has(p) {
			t.Errorf("viewer must not hold %s", p)
		}
	}
}

func TestRoleUnknownFailsClosed(t *testing.T) {
	var r Role
	if r.Valid() {
		t.Fatal("zero role must be invalid")
	}
	if r.Mask() != 0 {
		t.Fatal("zero role must carry no grants")
	}
	if r.String() != "UNKNOWN" {
		t.Fatalf("String() = %q", r.String())
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		parsed, err := ParseRole(r.String())
		if err != nil {
			t.Fatalf("ParseRole(%s): %v", r, err)
		}
		if parsed != r {
			t.Fatalf("ParseRole(%s) = %v", r, parsed)
		}
	}

	for _, name := range []string{"admin", "Viewer", "ROOT", ""} {
		if _, err := ParseRole(name); err == nil {
			t.Errorf("ParseRole(%q) accepted", name)
		}
	}
}

func TestParsePermission(t *testing.T) {
	for _, p := range All() {
		parsed, ok := ParsePermission(p.String())
		if !ok || parsed != p {
			t.Fatalf("ParsePermission(%s) = %v, %v", p, parsed, ok)
		}
	}
	if _, ok := ParsePermission("missile.launch"); ok {
		t.Fatal("unknown name accepted")
	}
}

func TestMaskOps(t *testing.T) {
	m := maskOf(DashboardRead, DataRead)

	if !m.HasAll(DashboardRead, DataRead) {
		t.Fatal("HasAll on exact set")
	}
	if m.HasAll(DashboardRead, DataWrite) {
		t.Fatal("HasAll with a missing grant")
	}
	if !m.HasAny(DataWrite, DataRead) {
		t.Fatal("HasAny with one present grant")
	}
	if m.HasAny(DataWrite, SystemManage) {
		t.Fatal("HasAny with no present grant")
	}
	if !m.HasAll() {
		t.Fatal("empty HasAll must be vacuously true")
	}
	if m.Has(Permission(200)) {
		t.Fatal("out-of-range permission granted")
	}
}

func TestPermissionCountIsFourteen(t *testing.T) {
	if got := len(All()); got != 14 {
		t.Fatalf("permission count = %d, want 14", got)
	}
}
