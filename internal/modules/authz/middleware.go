package authz

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ateliersoft/atelier-backend/internal/modules/auth"
)

const apiPrefix = "/api/v1/"

// Middleware returns middleware that checks the request principal
// against the permission snapshot. The resource is the first path
// segment after the API prefix.
func Middleware(enforcer *Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "missing principal")
				return
			}
			resource := resourceFromPath(r.URL.Path)
			if resource == "" || !enforcer.Allowed(resource, p.Role) {
				deny(w, http.StatusForbidden,
					fmt.Sprintf("role %s may not access %s", p.Role, resource))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resourceFromPath(path string) string {
	if !strings.HasPrefix(path, apiPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, apiPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`+"\n", msg)
}
