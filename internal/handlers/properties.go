package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/internal/services"
	"github.com/diewo77/immo-gestion/validation"
)

const maxUploadMemory = 32 << 20

type PropertyHandler struct {
	svc  *Services
	gate *policy.AuthGate
}

func NewPropertyHandler(svc *Services, ag *policy.AuthGate) *PropertyHandler {
	return &PropertyHandler{svc: svc, gate: ag}
}

// ToggleDetails expands or collapses a card. Open to anonymous visitors.
func (h *PropertyHandler) ToggleDetails(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	if id, ok := pathID(r); ok {
		s.ToggleDetails(id)
	}
	done(w, r, s)
}

// ToggleBooking opens or closes the appointment form of a card.
func (h *PropertyHandler) ToggleBooking(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	if id, ok := pathID(r); ok {
		s.ToggleBooking(id)
	}
	done(w, r, s)
}

// owned loads the property in the path and checks the user may act on it.
func (h *PropertyHandler) owned(ctx context.Context, r *http.Request) (*models.Property, error) {
	id, ok := pathID(r)
	if !ok {
		return nil, services.ErrNotFound
	}
	p, err := h.svc.Properties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.gate.Authorize(ctx, gate.ActionUpdate, policy.ResourceProperty, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleEdit opens the inline editor of a listing, or closes it.
func (h *PropertyHandler) ToggleEdit(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	p, err := h.owned(r.Context(), r)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	if s.IsEditing(p.ID) {
		s.Editing = 0
	} else {
		s.Editing = p.ID
	}
	done(w, r, s)
}

func (h *PropertyHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	s.Editing = 0
	done(w, r, s)
}

// Create stores a listing from the add-property form. Who ends up as
// landlord and agent depends on the author's role.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		fail(r, s, err)
		done(w, r, s)
		return
	}

	in := services.PropertyInput{
		Titre:           strings.TrimSpace(r.FormValue("titre")),
		TypeBien:        r.FormValue("type_bien"),
		UsagePossible:   r.FormValue("usage_possible"),
		TransactionType: r.FormValue("transaction_type"),
		SituationGeo:    strings.TrimSpace(r.FormValue("situation_geo")),
		Taille:          formFloat(r, "taille"),
		Prix:            formFloat(r, "prix"),
		Description:     strings.TrimSpace(r.FormValue("description")),
		IsFeatured:      formBool(r, "is_featured"),
	}
	v := in.Validate()

	role, _ := h.gate.Role(ctx)
	bailleurID, agentID := h.parties(ctx, r, s.UserID, role, v)
	if !v.Empty() {
		invalid(s, v)
		done(w, r, s)
		return
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["images"]
	}
	if err := services.CheckImages(files); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}

	id, err := h.svc.Properties.Create(ctx, in, bailleurID, agentID)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	logging.FromContext(ctx).Info("property created", "property_id", id, "user_id", s.UserID)

	if _, err := h.svc.Images.Save(id, files); err != nil {
		logging.FromContext(ctx).Warn("save images", "property_id", id, "err", err)
		s.SetFlash(flashWarning, "flash_images_failed")
		done(w, r, s)
		return
	}
	s.SetFlash(flashSuccess, "flash_property_created")
	done(w, r, s)
}

// parties resolves landlord and agent of a new listing. Agents list for
// themselves; landlords own the listing and may name an agent; managers
// must name one.
func (h *PropertyHandler) parties(ctx context.Context, r *http.Request, uid uint, role models.Role, v validation.Violations) (bailleurID, agentID *uint) {
	switch role {
	case models.RoleAgent:
		return nil, &uid
	case models.RoleBailleur:
		bailleurID = &uid
	}
	raw := strings.TrimSpace(r.FormValue("agent_id"))
	if raw == "" {
		if role == models.RoleManager {
			v["agent_id"] = "required"
		}
		return bailleurID, nil
	}
	id, ok := parseID(raw)
	if !ok {
		v["agent_id"] = "invalid_choice"
		return bailleurID, nil
	}
	agent, err := h.svc.Users.ByID(ctx, id)
	if err != nil || !agent.Is(models.RoleAgent) || !agent.IsActive {
		v["agent_id"] = "invalid_choice"
		return bailleurID, nil
	}
	return bailleurID, &id
}

// Update saves the inline edit form.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	p, err := h.owned(ctx, r)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	in := services.PropertyUpdate{
		Titre:           strings.TrimSpace(r.FormValue("titre")),
		TypeBien:        r.FormValue("type_bien"),
		TransactionType: r.FormValue("transaction_type"),
		Taille:          formFloat(r, "taille"),
		Prix:            formFloat(r, "prix"),
		Description:     strings.TrimSpace(r.FormValue("description")),
		IsFeatured:      formBool(r, "is_featured"),
	}
	if v := in.Validate(); !v.Empty() {
		invalid(s, v)
		done(w, r, s)
		return
	}
	if err := h.svc.Properties.Update(ctx, p.ID, in); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	s.Editing = 0
	s.SetFlash(flashSuccess, "flash_property_updated")
	done(w, r, s)
}

// ToggleAvailability withdraws an available listing or puts it back.
func (h *PropertyHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	p, err := h.owned(ctx, r)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	if err := h.svc.Properties.SetAvailable(ctx, p.ID, !p.IsAvailable); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	if p.IsAvailable {
		s.SetFlash(flashSuccess, "flash_property_hidden")
	} else {
		s.SetFlash(flashSuccess, "flash_property_available")
	}
	done(w, r, s)
}
