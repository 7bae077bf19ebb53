// Package handlers implements the HTTP side of the application: the page
// dispatcher and the form actions behind every button.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/services"
	"github.com/diewo77/immo-gestion/validation"
)

// Services groups the domain services the handlers share.
type Services struct {
	Gateway      *db.Gateway
	Auth         *services.AuthService
	Users        *services.UserService
	Properties   *services.PropertyService
	Favorites    *services.FavoriteService
	Appointments *services.AppointmentService
	Assignments  *services.AssignmentService
	Reporting    *services.ReportingService
	Images       *services.ImageStore
}

// NewServices builds every service on top of one gateway.
func NewServices(gw *db.Gateway, uploadDir string) *Services {
	return &Services{
		Gateway:      gw,
		Auth:         services.NewAuthService(gw),
		Users:        services.NewUserService(gw),
		Properties:   services.NewPropertyService(gw),
		Favorites:    services.NewFavoriteService(gw),
		Appointments: services.NewAppointmentService(gw),
		Assignments:  services.NewAssignmentService(gw),
		Reporting:    services.NewReportingService(gw),
		Images:       services.NewImageStore(uploadDir),
	}
}

// Flash kinds.
const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashError   = "error"
)

// done stores the session and sends the browser back to the dispatcher.
func done(w http.ResponseWriter, r *http.Request, s *auth.Session) {
	auth.Save(w, s)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail turns err into a flash message. Unexpected errors are logged; the
// session itself is kept.
func fail(r *http.Request, s *auth.Session, err error) {
	kind, code := flashError, "flash_error"
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		code = "flash_invalid_credentials"
	case errors.Is(err, services.ErrUsernameTaken):
		kind, code = flashWarning, "flash_username_taken"
	case errors.Is(err, services.ErrNoAgentAssigned):
		kind, code = flashWarning, "flash_no_agent"
	case errors.Is(err, services.ErrPropertyUnavailable):
		kind, code = flashWarning, "flash_property_unavailable"
	case errors.Is(err, services.ErrInvalidTransition):
		kind, code = flashWarning, "flash_invalid_transition"
	case errors.Is(err, services.ErrAssignmentConflict):
		kind, code = flashWarning, "flash_assignment_conflict"
	case errors.Is(err, services.ErrInvalidImage):
		kind, code = flashWarning, "flash_invalid_image"
	case errors.Is(err, services.ErrNotFound):
		code = "flash_not_found"
	case errors.Is(err, services.ErrForbidden), errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrNoProfile):
		code = "flash_forbidden"
	default:
		logging.FromContext(r.Context()).Error("action failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.SetFlash(kind, code)
}

// invalid flashes the first violation of a rejected form.
func invalid(s *auth.Session, v validation.Violations) {
	field, code := v.First()
	s.Flash = &auth.Flash{Kind: flashWarning, Message: code, Field: field}
}

func pathID(r *http.Request) (uint, bool) {
	return parseID(r.PathValue("id"))
}

func formID(r *http.Request, name string) (uint, bool) {
	return parseID(r.FormValue(name))
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formFloat reads a number field. Empty or malformed input reads as 0 and
// is caught by the form's validation.
func formFloat(r *http.Request, name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(name)), 64)
	if err != nil {
		return 0
	}
	return f
}

// optionalFloat parses s, returning nil when it is empty or malformed.
func optionalFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func formBool(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "true", "on", "1":
		return true
	}
	return false
}
