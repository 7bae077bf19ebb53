package handlers

import (
	"net/http"

	"github.com/diewo77/immo-gestion/auth"
)

type FavoriteHandler struct {
	svc *Services
}

func NewFavoriteHandler(svc *Services) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		s.SetFlash(flashError, "flash_not_found")
		done(w, r, s)
		return
	}
	if err := h.svc.Favorites.Add(r.Context(), s.UserID, id); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	s.SetFlash(flashSuccess, "flash_favorite_added")
	done(w, r, s)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		s.SetFlash(flashError, "flash_not_found")
		done(w, r, s)
		return
	}
	if err := h.svc.Favorites.Remove(r.Context(), s.UserID, id); err != nil {
		fail(r, s, err)
		done(w, r, s)
		return
	}
	s.SetFlash(flashSuccess, "flash_favorite_removed")
	done(w, r, s)
}
