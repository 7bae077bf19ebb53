// Package policy maps roles to permissions, decides record-level access and
// lists which pages each role may open.
package policy

import (
	"context"
	"errors"

	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/services"
)

// Resource types used in permissions.
const (
	ResourceProperty    = "property"
	ResourceFavorite    = "favorite"
	ResourceAppointment = "appointment"
	ResourceClient      = "client"
	ResourceUser        = "user"
	ResourceStatistics  = "statistics"
)

func perm(resource string, actions ...gate.Action) []gate.Permission {
	out := make([]gate.Permission, len(actions))
	for i, a := range actions {
		out[i] = gate.NewPermission(resource, a)
	}
	return out
}

func profile(role models.Role, groups ...[]gate.Permission) *gate.StaticProfile {
	var all []gate.Permission
	for _, g := range groups {
		all = append(all, g...)
	}
	return gate.NewStaticProfile(string(role), all...)
}

var roleProfiles = map[models.Role]gate.Profile{
	models.RoleClient: profile(models.RoleClient,
		perm(ResourceProperty, gate.ActionList, gate.ActionView),
		perm(ResourceFavorite, gate.Wildcard),
		perm(ResourceAppointment, gate.ActionCreate, gate.ActionList, gate.ActionCancel),
	),
	models.RoleBailleur: profile(models.RoleBailleur,
		perm(ResourceProperty, gate.ActionList, gate.ActionView, gate.ActionCreate, gate.ActionUpdate),
	),
	models.RoleAgent: profile(models.RoleAgent,
		perm(ResourceProperty, gate.ActionList, gate.ActionView, gate.ActionCreate, gate.ActionUpdate),
		perm(ResourceAppointment, gate.ActionList, gate.ActionConfirm, gate.ActionComplete),
		perm(ResourceClient, gate.ActionList),
	),
	models.RoleManager: gate.NewStaticProfile(string(models.RoleManager), gate.PermissionAll),
}

// ProfileFor returns the permission profile of role, or nil for an unknown
// role.
func ProfileFor(role models.Role) gate.Profile {
	return roleProfiles[role]
}

// RoleResolver resolves a user id to the profile of the account's role.
// Missing or deactivated accounts have no profile.
type RoleResolver struct {
	Users *services.UserService
}

func NewRoleResolver(users *services.UserService) *RoleResolver {
	return &RoleResolver{Users: users}
}

func (r *RoleResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	u, err := r.Users.ByID(ctx, userID)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, nil
	}
	return ProfileFor(u.Role), nil
}
