package auth

import (
	"context"
	"net/http"
	"strings"
)

// UserVerifier reports whether the session's user still exists and is
// allowed to log in. Set it during bootstrap with SetUserVerifier.
type UserVerifier func(ctx context.Context, uid uint) bool

var verifier UserVerifier

func SetUserVerifier(v UserVerifier) { verifier = v }

// Middleware loads the session into the request context. A session whose
// user no longer passes the verifier is reset and its cookie cleared.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := Load(r)
		if !ok {
			s = &Session{}
		}
		if s.Authenticated() && verifier != nil && !verifier(r.Context(), s.UserID) {
			s.Reset()
			ClearSession(w)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// RequireAuth rejects anonymous requests: 401 JSON for API clients, a
// redirect home with a flash otherwise.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		if s.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}
		accept := r.Header.Get("Accept")
		if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		s.SetFlash("error", "flash_login_required")
		Save(w, s)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
