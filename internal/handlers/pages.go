package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/internal/services"
	"github.com/diewo77/immo-gestion/view"
)

// PageHandler renders GET / for every visitor: the public browser for
// anonymous users, the role menu and active page otherwise.
type PageHandler struct {
	svc *Services
}

func NewPageHandler(svc *Services) *PageHandler {
	return &PageHandler{svc: svc}
}

// filterForm echoes the listing filters back into the form.
type filterForm struct {
	TypeBien        string
	TransactionType string
	PrixMin         string
	PrixMax         string
}

func (f filterForm) filter() services.PropertyFilter {
	return services.PropertyFilter{
		TypeBien:        f.TypeBien,
		TransactionType: f.TransactionType,
		PrixMin:         optionalFloat(f.PrixMin),
		PrixMax:         optionalFloat(f.PrixMax),
	}
}

func readFilter(r *http.Request) filterForm {
	q := r.URL.Query()
	return filterForm{
		TypeBien:        strings.TrimSpace(q.Get("type_bien")),
		TransactionType: strings.TrimSpace(q.Get("transaction_type")),
		PrixMin:         strings.TrimSpace(q.Get("prix_min")),
		PrixMax:         strings.TrimSpace(q.Get("prix_max")),
	}
}

// appointmentRow is an appointment plus the statuses the viewer may move
// it to.
type appointmentRow struct {
	models.Appointment
	Next []models.AppointmentStatus
}

// Home is the dispatcher.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		view.Error(w, r, http.StatusNotFound, "not_found")
		return
	}
	ctx := r.Context()
	s := auth.FromContext(ctx)
	flash := s.PopFlash()
	if flash != nil {
		auth.Save(w, s)
	}

	data := map[string]any{
		"Session":          s,
		"Flash":            flash,
		"PropertyTypes":    models.PropertyTypes,
		"PropertyUsages":   models.PropertyUsages,
		"TransactionTypes": models.TransactionTypes,
		"AppointmentTypes": models.AppointmentTypes,
		"Favorites":        map[uint]bool{},
		"Images":           map[uint][]string{},
	}

	if !s.Authenticated() {
		h.public(w, r, s, data)
		return
	}

	user, err := h.svc.Users.ByID(ctx, s.UserID)
	if errors.Is(err, services.ErrNotFound) {
		s.Reset()
		auth.ClearSession(w)
		h.public(w, r, s, data)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	page := policy.ParsePage(s.Page)
	data["User"] = user
	data["Role"] = user.Role
	data["IsClient"] = user.Is(models.RoleClient)
	data["Menu"] = policy.Menu(user.Role)
	data["Page"] = page
	data["CanView"] = policy.CanView(page, user.Role)

	if policy.CanView(page, user.Role) {
		if err := h.load(ctx, page, user, s, r, data); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	if err := view.Render(w, r, "app.html", data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *PageHandler) public(w http.ResponseWriter, r *http.Request, s *auth.Session, data map[string]any) {
	filter := readFilter(r)
	props, err := h.svc.Properties.List(r.Context(), filter.filter())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data["Filter"] = filter
	data["Properties"] = props
	data["Images"] = h.images(props, s)
	data["IsClient"] = false
	data["Roles"] = models.SelfServiceRoles
	if err := view.Render(w, r, "public.html", data); err != nil {
		h.serverError(w, r, err)
	}
}

// load fills data with what page needs for user.
func (h *PageHandler) load(ctx context.Context, page policy.Page, user *models.User, s *auth.Session, r *http.Request, data map[string]any) error {
	svc := h.svc
	switch page {
	case policy.PageProperties:
		filter := readFilter(r)
		props, err := svc.Properties.List(ctx, filter.filter())
		if err != nil {
			return err
		}
		data["Filter"] = filter
		data["Properties"] = props
		data["Images"] = h.images(props, s)
		if user.Is(models.RoleClient) {
			favs, err := svc.Favorites.PropertyIDs(ctx, user.ID)
			if err != nil {
				return err
			}
			data["Favorites"] = favs
		}

	case policy.PageFavorites:
		favs, err := svc.Favorites.List(ctx, user.ID)
		if err != nil {
			return err
		}
		data["FavoriteList"] = favs

	case policy.PageAppointments:
		var list []models.Appointment
		var err error
		switch user.Role {
		case models.RoleClient:
			list, err = svc.Appointments.ListForClient(ctx, user.ID)
		case models.RoleAgent:
			list, err = svc.Appointments.ListForAgent(ctx, user.ID)
		default:
			list, err = svc.Appointments.ListAll(ctx)
		}
		if err != nil {
			return err
		}
		rows := make([]appointmentRow, len(list))
		for i := range list {
			rows[i] = appointmentRow{Appointment: list[i], Next: list[i].NextStatuses(user.Role)}
		}
		data["Appointments"] = rows

	case policy.PageAddProperty:
		chooser := user.Is(models.RoleManager, models.RoleBailleur)
		data["ChooseAgent"] = chooser
		data["AgentRequired"] = user.Is(models.RoleManager)
		data["Agents"] = []models.User{}
		if chooser {
			agents, err := svc.Users.ListByRole(ctx, models.RoleAgent)
			if err != nil {
				return err
			}
			data["Agents"] = agents
		}

	case policy.PageMyProperties:
		props, err := svc.Properties.ListByLandlord(ctx, user.ID)
		if err != nil {
			return err
		}
		data["MyProperties"] = props

	case policy.PageMyClients:
		assignments, err := h.assignments(ctx, user)
		if err != nil {
			return err
		}
		data["Assignments"] = assignments

	case policy.PageManageUsers:
		users, err := svc.Users.ListAll(ctx)
		if err != nil {
			return err
		}
		clients, err := svc.Users.ListByRole(ctx, models.RoleClient)
		if err != nil {
			return err
		}
		agents, err := svc.Users.ListByRole(ctx, models.RoleAgent)
		if err != nil {
			return err
		}
		assignments, err := svc.Assignments.ListActive(ctx)
		if err != nil {
			return err
		}
		data["Users"] = users
		data["ActiveClients"] = clients
		data["ActiveAgents"] = agents
		data["Assignments"] = assignments

	case policy.PageStatistics:
		dash, err := svc.Reporting.Dashboard(ctx)
		if err != nil {
			return err
		}
		data["Dashboard"] = dash
	}
	return nil
}

func (h *PageHandler) assignments(ctx context.Context, user *models.User) ([]models.ClientAssignment, error) {
	if user.Is(models.RoleManager) {
		return h.svc.Assignments.ListActive(ctx)
	}
	return h.svc.Assignments.ClientsOf(ctx, user.ID)
}

// images lists the pictures of the cards whose details are open.
func (h *PageHandler) images(props []models.Property, s *auth.Session) map[uint][]string {
	out := make(map[uint][]string)
	for _, p := range props {
		if s.DetailsOpen(p.ID) {
			out[p.ID] = h.svc.Images.URLs(p.ID)
		}
	}
	return out
}

func (h *PageHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "err", err)
	view.Error(w, r, http.StatusInternalServerError, "server_error")
}

// Navigate switches the active page.
func (h *PageHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	s.Navigate(string(policy.ParsePage(r.FormValue("page"))))
	done(w, r, s)
}
