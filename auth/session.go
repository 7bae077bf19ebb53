// Package auth carries the signed session cookie. The cookie holds the
// logged-in user id plus the per-visitor UI state (current page, open
// cards, pending flash message).
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
	sessionTTL        = 14 * 24 * time.Hour
)

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Kind    string `json:"k"` // success, warning, error
	Message string `json:"m"`
	// Field names the form field a validation message refers to.
	Field string `json:"fd,omitempty"`
}

// Session is the typed state of one visitor.
type Session struct {
	UserID  uint   `json:"uid,omitempty"`
	Page    string `json:"p,omitempty"`
	Panel   string `json:"pn,omitempty"`
	Details []uint `json:"d,omitempty"`
	Booking []uint `json:"b,omitempty"`
	Editing uint   `json:"e,omitempty"`
	Flash   *Flash `json:"f,omitempty"`
}

func (s *Session) Authenticated() bool { return s != nil && s.UserID != 0 }

// Reset clears every field.
func (s *Session) Reset() { *s = Session{} }

// Login starts a fresh session for uid, keeping any pending flash.
func (s *Session) Login(uid uint, page string) {
	flash := s.Flash
	s.Reset()
	s.UserID, s.Page, s.Flash = uid, page, flash
}

func (s *Session) DetailsOpen(id uint) bool { return slices.Contains(s.Details, id) }
func (s *Session) BookingOpen(id uint) bool { return slices.Contains(s.Booking, id) }
func (s *Session) IsEditing(id uint) bool   { return s.Editing != 0 && s.Editing == id }

// ToggleDetails expands or collapses a property card. Collapsing also
// closes its booking form.
func (s *Session) ToggleDetails(id uint) {
	if s.DetailsOpen(id) {
		s.Details = remove(s.Details, id)
		s.Booking = remove(s.Booking, id)
		return
	}
	s.Details = append(s.Details, id)
}

// ToggleBooking opens or closes the booking form of an expanded card.
func (s *Session) ToggleBooking(id uint) {
	if s.BookingOpen(id) {
		s.Booking = remove(s.Booking, id)
		return
	}
	if !s.DetailsOpen(id) {
		s.Details = append(s.Details, id)
	}
	s.Booking = append(s.Booking, id)
}

// CloseBooking closes the booking form of id, if open.
func (s *Session) CloseBooking(id uint) { s.Booking = remove(s.Booking, id) }

// Navigate switches page and drops the per-card state of the previous one.
func (s *Session) Navigate(page string) {
	s.Page = page
	s.Details, s.Booking, s.Editing = nil, nil, 0
}

func (s *Session) SetFlash(kind, message string) {
	s.Flash = &Flash{Kind: kind, Message: message}
}

// PopFlash returns the pending flash and clears it.
func (s *Session) PopFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

func remove(ids []uint, id uint) []uint {
	return slices.DeleteFunc(ids, func(v uint) bool { return v == id })
}

var secret string

// SetSecret sets the HMAC key. Empty falls back to SESSION_SECRET.
func SetSecret(s string) { secret = s }

// Secret returns the configured key, SESSION_SECRET, or a dev default.
func Secret() string {
	if secret != "" {
		return secret
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Save writes the session cookie.
func Save(w http.ResponseWriter, s *Session) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + sign(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Load reads and verifies the session cookie.
func Load(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	payload, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(sign(payload))) {
		return nil, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// FromContext returns the request session. Outside Middleware it returns a
// fresh empty session, never nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionCtxKey).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// UserIDFromContext returns the logged-in user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	s := FromContext(ctx)
	return s.UserID, s.Authenticated()
}
