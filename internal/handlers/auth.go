package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/internal/policy"
	"github.com/diewo77/immo-gestion/internal/services"
)

// Public panels.
const (
	panelLogin    = "login"
	panelRegister = "register"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(a *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: a}
}

// Panel shows the login or register form, or hides it when it is already
// open.
func (h *AuthHandler) Panel(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	panel := r.FormValue("panel")
	if panel != panelLogin && panel != panelRegister {
		panel = ""
	}
	if s.Panel == panel {
		panel = ""
	}
	s.Panel = panel
	done(w, r, s)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	user, err := h.auth.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		fail(r, s, err)
		s.Panel = panelLogin
		done(w, r, s)
		return
	}
	s.Login(user.ID, string(policy.DefaultPage))
	s.SetFlash(flashSuccess, "flash_login_success")
	done(w, r, s)
}

// Register creates a client or landlord account. Staff accounts are made
// by seeding only.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	in := services.RegisterInput{
		Username:      strings.TrimSpace(r.FormValue("username")),
		Email:         strings.TrimSpace(r.FormValue("email")),
		Password:      r.FormValue("password"),
		Role:          models.Role(r.FormValue("role")),
		Nom:           strings.TrimSpace(r.FormValue("nom")),
		Prenom:        strings.TrimSpace(r.FormValue("prenom")),
		RaisonSociale: strings.TrimSpace(r.FormValue("raison_sociale")),
		Telephone:     strings.TrimSpace(r.FormValue("telephone")),
		Adresse:       strings.TrimSpace(r.FormValue("adresse")),
	}
	s.Panel = panelRegister

	v := in.Validate()
	if !slices.Contains(models.SelfServiceRoles, in.Role) {
		v["role"] = "invalid_choice"
	}
	if !v.Empty() {
		invalid(s, v)
		done(w, r, s)
		return
	}
	if _, err := h.auth.Register(r.Context(), in); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	s.Panel = panelLogin
	s.SetFlash(flashSuccess, "flash_register_success")
	done(w, r, s)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	s.Reset()
	s.SetFlash(flashSuccess, "flash_logout_success")
	done(w, r, s)
}
