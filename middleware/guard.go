package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dashAuth "github.com/MrEthical07/dashAuth"
)

type callerContextKey struct{}

// CallerFromContext returns the Caller injected by [Authenticate].
func CallerFromContext(ctx context.Context) (*dashAuth.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(*dashAuth.Caller)
	return caller, ok
}

// Authenticate resolves the Authorization bearer token through
// Service.Authenticate and injects the resulting Caller into the request
// context. Missing or unusable tokens answer 401; a token naming a
// disabled, locked, or unverified account answers 403.
func Authenticate(svc *dashAuth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc == nil {
				writeError(w, http.StatusUnauthorized, dashAuth.ErrUnauthenticated, nil, "")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, dashAuth.ErrUnauthenticated, nil, "")
				return
			}

			caller, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, statusForAuthError(err), err, nil, "")
				return
			}

			ctx := context.WithValue(r.Context(), callerContextKey{}, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, dashAuth.ErrTokenExpired),
		errors.Is(err, dashAuth.ErrTokenInvalid),
		errors.Is(err, dashAuth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, dashAuth.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, dashAuth.ErrAccountDisabled),
		errors.Is(err, dashAuth.ErrAccountNotVerified),
		errors.Is(err, dashAuth.ErrNoRoleAssigned):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// errorBody is the JSON failure payload. Required and Actual are populated
// only by the RBAC guards so clients can see which grants were missing.
type errorBody struct {
	Error    string   `json:"error"`
	Required []string `json:"required,omitempty"`
	Actual   string   `json:"actual,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error, required []string, actual string) {
	msg := "internal error"
	if status != http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:    msg,
		Required: required,
		Actual:   actual,
	})
}
