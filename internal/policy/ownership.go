package policy

import (
	"context"

	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/internal/models"
)

// Ownable is a record with one or more owning users.
type Ownable interface {
	OwnedBy(userID uint) bool
}

// OwnershipPolicy allows access to records the user owns. Records that
// are not Ownable are denied.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	return ok && ownable.OwnedBy(userID)
}

// AppointmentPolicy lets the client cancel and view their own appointments
// and the responsible agent confirm, complete and view them.
type AppointmentPolicy struct{}

func NewAppointmentPolicy() *AppointmentPolicy {
	return &AppointmentPolicy{}
}

func (p *AppointmentPolicy) Can(_ context.Context, userID uint, action gate.Action, resource any) bool {
	a, ok := resource.(*models.Appointment)
	if !ok || a == nil {
		return false
	}
	switch action {
	case gate.ActionCancel:
		return a.ClientID == userID
	case gate.ActionConfirm, gate.ActionComplete:
		return a.AgentID == userID
	case gate.ActionView:
		return a.Involves(userID)
	default:
		return false
	}
}

// AdminBypassPolicy lets managers through and defers to inner for
// everyone else.
type AdminBypassPolicy struct {
	inner   gate.Policy[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
