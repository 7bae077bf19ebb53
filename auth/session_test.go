package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, s *Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	Save(rec, s)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	in := &Session{UserID: 42, Page: "favorites", Details: []uint{3, 5}, Booking: []uint{5}, Editing: 9}
	in.SetFlash("success", "saved")

	out, ok := Load(roundTrip(t, in))
	if !ok {
		t.Fatal("Load failed on a freshly saved cookie")
	}
	if out.UserID != 42 || out.Page != "favorites" || out.Editing != 9 {
		t.Errorf("loaded %+v", out)
	}
	if !out.DetailsOpen(3) || !out.BookingOpen(5) || out.BookingOpen(3) {
		t.Errorf("card state lost: %+v", out)
	}
	if f := out.PopFlash(); f == nil || f.Message != "saved" {
		t.Errorf("flash = %+v", f)
	}
	if out.PopFlash() != nil {
		t.Error("flash should be consumed")
	}
}

func TestLoad_RejectsTamperedCookie(t *testing.T) {
	req := roundTrip(t, &Session{UserID: 1})
	c, _ := req.Cookie(sessionCookieName)
	payload, sig, _ := strings.Cut(c.Value, ".")

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: sessionCookieName, Value: payload + "x." + sig})
	if _, ok := Load(forged); ok {
		t.Error("tampered payload accepted")
	}

	SetSecret("another-secret")
	defer SetSecret("")
	if _, ok := Load(req); ok {
		t.Error("cookie signed with another key accepted")
	}
}

func TestSession_Toggles(t *testing.T) {
	s := &Session{}
	s.ToggleBooking(7)
	if !s.DetailsOpen(7) || !s.BookingOpen(7) {
		t.Fatalf("booking should open details too: %+v", s)
	}
	s.ToggleDetails(7)
	if s.DetailsOpen(7) || s.BookingOpen(7) {
		t.Errorf("hiding details must close the booking form: %+v", s)
	}
	s.ToggleDetails(7)
	s.ToggleDetails(8)
	if !s.DetailsOpen(7) || !s.DetailsOpen(8) {
		t.Errorf("cards toggle independently: %+v", s)
	}

	s.Editing = 8
	s.Navigate("statistics")
	if s.Page != "statistics" || len(s.Details) != 0 || s.Editing != 0 {
		t.Errorf("Navigate should reset card state: %+v", s)
	}
}

func TestSession_LoginKeepsFlashOnly(t *testing.T) {
	s := &Session{Page: "x", Details: []uint{1}, Panel: "login"}
	s.SetFlash("success", "welcome")
	s.Login(5, "properties")
	if s.UserID != 5 || s.Page != "properties" || s.Panel != "" || len(s.Details) != 0 {
		t.Errorf("after Login: %+v", s)
	}
	if s.Flash == nil || s.Flash.Message != "welcome" {
		t.Error("flash dropped on login")
	}
}

func TestMiddleware_VerifierClearsStaleSession(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid == 1 })
	defer SetUserVerifier(nil)

	var got *Session
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, roundTrip(t, &Session{UserID: 1, Page: "favorites"}))
	if got.UserID != 1 {
		t.Errorf("valid session dropped: %+v", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, roundTrip(t, &Session{UserID: 2, Page: "favorites"}))
	if got.Authenticated() || got.Page != "" {
		t.Errorf("stale session kept: %+v", got)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "session=;") {
		t.Errorf("cookie not cleared: %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestRequireAuth(t *testing.T) {
	called := false
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/statistics/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("json anonymous: code %d called %v", rec.Code, called)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/nav", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" || called {
		t.Errorf("html anonymous: code %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, roundTrip(t, &Session{UserID: 3}))
	if !called {
		t.Error("authenticated request not forwarded")
	}
}

func TestFromContext_NeverNil(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil")
	}
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("empty context should be anonymous")
	}
}
