package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/internal/services"
)

// AdminHandler serves the manager's user management actions.
type AdminHandler struct {
	svc  *Services
	gate *policy.AuthGate
}

func NewAdminHandler(svc *Services, ag *policy.AuthGate) *AdminHandler {
	return &AdminHandler{svc: svc, gate: ag}
}

// SetActive activates or deactivates an account and drops its cached
// permissions so the change applies to its next request.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	id, ok := pathID(r)
	if !ok {
		s.SetFlash(flashError, "flash_not_found")
		done(w, r, s)
		return
	}
	active := formBool(r, "active")
	err := h.svc.Users.SetActive(ctx, id, active)
	switch {
	case errors.Is(err, services.ErrForbidden):
		s.SetFlash(flashWarning, "flash_manager_protected")
	case err != nil:
		fail(r, s, err)
	default:
		h.gate.InvalidateUser(id)
		logging.FromContext(ctx).Info("user active flag changed", "user_id", id, "active", active, "by", s.UserID)
		s.SetFlash(flashSuccess, "flash_user_updated")
	}
	done(w, r, s)
}

// Assign gives a client a new responsible agent.
func (h *AdminHandler) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	clientID, okClient := formID(r, "client_id")
	agentID, okAgent := formID(r, "agent_id")
	if !okClient || !okAgent {
		s.Flash = &auth.Flash{Kind: flashWarning, Message: "required", Field: "client_id"}
		if okClient {
			s.Flash.Field = "agent_id"
		}
		done(w, r, s)
		return
	}
	if err := h.svc.Assignments.Assign(ctx, clientID, agentID, s.UserID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.Flash = &auth.Flash{Kind: flashWarning, Message: "invalid_choice", Field: "client_id"}
		} else {
			fail(r, s, err)
		}
		done(w, r, s)
		return
	}
	s.SetFlash(flashSuccess, "flash_assignment_saved")
	done(w, r, s)
}
