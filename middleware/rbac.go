package middleware

import (
	"net/http"

	dashAuth "github.com/MrEthical07/dashAuth"
	"github.com/MrEthical07/dashAuth/permission"
)

// RequireRole admits the request only when the caller's role is in the
// allowed set. The 403 payload names the allowed roles and the caller's
// actual role.
func RequireRole(allowed ...permission.Role) func(http.Handler) http.Handler {
	names := make([]string, len(allowed))
	for i, r := range allowed {
		names[i] = r.String()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, dashAuth.ErrUnauthenticated, nil, "")
				return
			}
			if !caller.Role.Valid() {
				writeError(w, http.StatusForbidden, dashAuth.ErrNoRoleAssigned, names, "")
				return
			}

			for _, role := range allowed {
				if caller.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, dashAuth.ErrInsufficientRole, names, caller.Role.String())
		})
	}
}

// RequirePermission admits the request only when the caller's role carries
// the grant.
func RequirePermission(p permission.Permission) func(http.Handler) http.Handler {
	return requireGrants([]permission.Permission{p}, false)
}

// RequireAnyPermission admits the request when the caller's role carries at
// least one of the grants.
func RequireAnyPermission(ps ...permission.Permission) func(http.Handler) http.Handler {
	return requireGrants(ps, false)
}

// RequireAllPermissions admits the request only when the caller's role
// carries every grant.
func RequireAllPermissions(ps ...permission.Permission) func(http.Handler) http.Handler {
	return requireGrants(ps, true)
}

func requireGrants(ps []permission.Permission, all bool) func(http.Handler) http.Handler {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, dashAuth.ErrUnauthenticated, nil, "")
				return
			}
			if !caller.Role.Valid() {
				writeError(w, http.StatusForbidden, dashAuth.ErrNoRoleAssigned, names, "")
				return
			}

			mask := caller.Role.Mask()
			granted := mask.HasAll(ps...)
			if !all {
				granted = mask.HasAny(ps...)
			}
			if !granted {
				writeError(w, http.StatusForbidden, dashAuth.ErrInsufficientPermission, names, caller.Role.String())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
