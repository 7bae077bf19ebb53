package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/httpx"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/services"
)

// AuthGate is the application's authorization checkpoint: role profiles
// resolved from the database and cached, plus record policies.
type AuthGate struct {
	Gate          *gate.HybridGate[uint]
	CacheResolver *gate.CachedResolver[uint]
	// Forbidden renders the 403 response. Defaults to a plain text error.
	Forbidden http.HandlerFunc
}

// NewAuthGate wires the role resolver, the cache and the record policies.
func NewAuthGate(users *services.UserService, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewRoleResolver(users), cacheTTL)
	ag := &AuthGate{
		Gate:          gate.NewHybridGate[uint](cached),
		CacheResolver: cached,
		Forbidden: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		},
	}
	ag.Gate.Register(ResourceProperty, NewAdminBypassPolicy(NewOwnershipPolicy(), ag.isManager))
	ag.Gate.Register(ResourceAppointment, NewAdminBypassPolicy(NewAppointmentPolicy(), ag.isManager))
	return ag
}

func (ag *AuthGate) isManager(ctx context.Context, userID uint) bool {
	p, err := ag.Gate.Profile(ctx, userID)
	return err == nil && p.HasPermission(gate.PermissionAll)
}

// Role returns the role of the session user. Anonymous and deactivated
// users have none.
func (ag *AuthGate) Role(ctx context.Context) (models.Role, bool) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", false
	}
	p, err := ag.Gate.Profile(ctx, uid)
	if err != nil {
		return "", false
	}
	return models.Role(p.Name()), true
}

// Authorize checks the session user against action on resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, uid, action, resourceType, resource)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks the permission only, without a record.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, uid, action, resourceType)
}

// InvalidateUser drops the cached profile of userID. Call it after the
// account's active flag changes.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequirePermission blocks requests whose user lacks resource:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return ag.guard(func(r *http.Request) bool {
		return ag.CanProfile(r.Context(), action, resourceType)
	})
}

// RequireRole blocks requests whose user holds none of roles. The wrapped
// handler is never invoked for them.
func (ag *AuthGate) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return ag.guard(func(r *http.Request) bool {
		role, ok := ag.Role(r.Context())
		if !ok {
			return false
		}
		for _, want := range roles {
			if role == want {
				return true
			}
		}
		return false
	})
}

func (ag *AuthGate) guard(allowed func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed(r) {
				if httpx.WantsJSON(r) {
					httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
					return
				}
				ag.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
