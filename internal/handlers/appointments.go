package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/internal/services"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	// defaultTimeRdv is used when the booking form sends no time.
	defaultTimeRdv = "14:00"
)

type AppointmentHandler struct {
	svc  *Services
	gate *policy.AuthGate
	now  func() time.Time
}

func NewAppointmentHandler(svc *Services, ag *policy.AuthGate) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, gate: ag, now: time.Now}
}

// Book requests an appointment from a property card's booking form.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	in := services.BookingInput{
		TypeRdv: r.FormValue("type_rdv"),
		Notes:   r.FormValue("notes"),
	}
	propertyID, ok := formID(r, "property_id")
	if !ok {
		s.SetFlash(flashError, "flash_not_found")
		done(w, r, s)
		return
	}
	in.PropertyID = propertyID
	clock := strings.TrimSpace(r.FormValue("time_rdv"))
	if clock == "" {
		clock = defaultTimeRdv
	}
	if d, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(r.FormValue("date_rdv"))+" "+clock, time.Local); err == nil {
		in.DateRdv = d
	}

	if v := in.Validate(h.now()); !v.Empty() {
		invalid(s, v)
		done(w, r, s)
		return
	}
	id, err := h.svc.Appointments.Create(ctx, s.UserID, in)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	logging.FromContext(ctx).Info("appointment booked", "appointment_id", id, "property_id", propertyID)
	s.CloseBooking(propertyID)
	s.SetFlash(flashSuccess, "flash_appointment_booked")
	done(w, r, s)
}

// statusActions maps a target status to the permission it needs.
var statusActions = map[models.AppointmentStatus]gate.Action{
	models.StatusCancelled: gate.ActionCancel,
	models.StatusConfirmed: gate.ActionConfirm,
	models.StatusCompleted: gate.ActionComplete,
}

// SetStatus moves an appointment along its lifecycle.
func (h *AppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := auth.FromContext(ctx)
	id, ok := pathID(r)
	if !ok {
		s.SetFlash(flashError, "flash_not_found")
		done(w, r, s)
		return
	}
	to := models.AppointmentStatus(r.FormValue("status"))
	action, ok := statusActions[to]
	if !ok {
		fail(r, s, services.ErrInvalidTransition)
		done(w, r, s)
		return
	}
	a, err := h.svc.Appointments.Get(ctx, id)
	if err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	if err := h.gate.Authorize(ctx, action, policy.ResourceAppointment, a); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	role, _ := h.gate.Role(ctx)
	if err := h.svc.Appointments.Transition(ctx, id, role, to); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	s.SetFlash(flashSuccess, "flash_appointment_updated")
	done(w, r, s)
}
