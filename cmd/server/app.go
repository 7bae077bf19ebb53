package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/gate"
	"github.com/diewo77/immo-gestion/i18n"
	"github.com/diewo77/immo-gestion/internal/config"
	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/handlers"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/view"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// profileCacheTTL bounds how long a role or active flag change can take to
// reach a user whose cache entry was not invalidated.
const profileCacheTTL = time.Minute

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	cfg     *config.Config
	svc     *handlers.Services
	gate    *policy.AuthGate
}

// NewApp creates a new application with all routes configured.
func NewApp(dbConn *gorm.DB, cfg *config.Config, logger *slog.Logger) *App {
	gw := db.NewGateway(dbConn, logger)
	svc := handlers.NewServices(gw, cfg.App.UploadDir)
	ag := policy.NewAuthGate(svc.Users, profileCacheTTL)
	ag.Forbidden = func(w http.ResponseWriter, r *http.Request) {
		s := auth.FromContext(r.Context())
		s.SetFlash("error", "flash_forbidden")
		auth.Save(w, s)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}

	app := &App{
		mux:  http.NewServeMux(),
		cfg:  cfg,
		svc:  svc,
		gate: ag,
	}

	auth.SetSecret(cfg.App.SessionSecret)
	auth.SetUserVerifier(svc.Users.IsActive)

	// Expose minimal permission resolvers to the view layer so templates can show/hide UI based on permissions
	view.SetDev(cfg.App.Dev)
	view.SetCanProfileResolver(func(r *http.Request, resource, action string) bool {
		return ag.CanProfile(r.Context(), gate.Action(action), resource)
	})
	view.SetIsManagerResolver(func(r *http.Request) bool {
		role, ok := ag.Role(r.Context())
		return ok && role == models.RoleManager
	})

	app.setupRoutes()
	app.handler = logging.Middleware(logger)(middleware.Recoverer(auth.Middleware(withPreferences(cfg.App.DefaultLang, app.mux))))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	svc := a.svc
	ph := handlers.NewPageHandler(svc)
	ah := handlers.NewAuthHandler(svc.Auth)
	prh := handlers.NewPropertyHandler(svc, a.gate)
	fh := handlers.NewFavoriteHandler(svc)
	aph := handlers.NewAppointmentHandler(svc, a.gate)
	adh := handlers.NewAdminHandler(svc, a.gate)

	// Public routes (no auth required)
	a.mux.HandleFunc("GET /", ph.Home)
	a.mux.HandleFunc("GET /healthz", handlers.Health(svc))
	a.mux.HandleFunc("POST /panel", ah.Panel)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /register", ah.Register)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("POST /properties/{id}/details", prh.ToggleDetails)

	// Authenticated routes
	a.mux.Handle("POST /nav", auth.RequireAuth(http.HandlerFunc(ph.Navigate)))
	a.mux.Handle("POST /properties/edit/cancel", auth.RequireAuth(http.HandlerFunc(prh.CancelEdit)))
	a.mux.Handle("POST /appointments/{id}/status", auth.RequireAuth(http.HandlerFunc(aph.SetStatus)))

	// Protected resource routes (require auth + specific permissions)
	a.mux.Handle("POST /properties",
		a.requirePermission(policy.ResourceProperty, gate.ActionCreate)(http.HandlerFunc(prh.Create)))
	a.mux.Handle("POST /properties/{id}",
		a.requirePermission(policy.ResourceProperty, gate.ActionUpdate)(http.HandlerFunc(prh.Update)))
	a.mux.Handle("POST /properties/{id}/edit",
		a.requirePermission(policy.ResourceProperty, gate.ActionUpdate)(http.HandlerFunc(prh.ToggleEdit)))
	a.mux.Handle("POST /properties/{id}/availability",
		a.requirePermission(policy.ResourceProperty, gate.ActionUpdate)(http.HandlerFunc(prh.ToggleAvailability)))
	a.mux.Handle("POST /properties/{id}/booking",
		a.requirePermission(policy.ResourceAppointment, gate.ActionCreate)(http.HandlerFunc(prh.ToggleBooking)))
	a.mux.Handle("POST /favorites/{id}",
		a.requirePermission(policy.ResourceFavorite, gate.ActionCreate)(http.HandlerFunc(fh.Add)))
	a.mux.Handle("POST /favorites/{id}/delete",
		a.requirePermission(policy.ResourceFavorite, gate.ActionDelete)(http.HandlerFunc(fh.Remove)))
	a.mux.Handle("POST /appointments",
		a.requirePermission(policy.ResourceAppointment, gate.ActionCreate)(http.HandlerFunc(aph.Book)))

	// Manager routes
	manager := a.gate.RequireRole(models.RoleManager)
	a.mux.Handle("POST /admin/users/{id}/active", manager(http.HandlerFunc(adh.SetActive)))
	a.mux.Handle("POST /admin/assignments",
		a.requirePermission(policy.ResourceClient, gate.ActionAssign)(http.HandlerFunc(adh.Assign)))
	a.mux.Handle("GET /statistics/data", manager(handlers.StatisticsData(svc)))

	// Uploaded images
	a.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.cfg.App.UploadDir))))
}

// requirePermission wraps a handler to require specific resource permission.
func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.gate.RequirePermission(resourceType, action)
}

// withPreferences resolves the language: ?lang= (remembered in a cookie),
// then the cookie, then Accept-Language, then the configured default.
func withPreferences(defaultLang string, next http.Handler) http.Handler {
	if !i18n.Supported(defaultLang) {
		defaultLang = i18n.Default
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				lang = i18n.DetectLanguage(accept)
			} else {
				lang = defaultLang
			}
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
