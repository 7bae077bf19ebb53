package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/immo-gestion/i18n"
)

func TestMoney(t *testing.T) {
	cases := map[any]string{
		250000.0:  "250 000 €",
		1234.5:    "1 234,50 €",
		999:       "999 €",
		0.0:       "0 €",
		-1500.0:   "-1 500 €",
		"invalid": "",
	}
	for in, want := range cases {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNumber(t *testing.T) {
	if got := Number(42.0); got != "42" {
		t.Errorf("Number(42.0) = %q", got)
	}
	if got := Number(3.14159); got != "3.14" {
		t.Errorf("Number(3.14159) = %q", got)
	}
	if got := Number(int64(7)); got != "7" {
		t.Errorf("Number(int64) = %q", got)
	}
	if got := Number(nil); got != "" {
		t.Errorf("Number(nil) = %q", got)
	}
}

func TestError_RendersTranslatedPage(t *testing.T) {
	ResetForTests()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/missing", nil)
	Error(w, r, http.StatusNotFound, "not_found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, "Page introuvable") {
		t.Fatalf("missing french title: %s", body)
	}
}

func TestRender_UsesRequestLanguage(t *testing.T) {
	ResetForTests()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), i18n.English))

	w := httptest.NewRecorder()
	if err := Render(w, r, "error.html", map[string]any{"Code": "forbidden", "Status": 403}); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Forbidden") || !strings.Contains(body, "Back home") {
		t.Fatalf("expected english output: %s", body)
	}
	if strings.Contains(body, "/logout") {
		t.Fatal("anonymous page shows logout")
	}
}

func TestFuncs_PermissionHelpersDefaultToFalse(t *testing.T) {
	fm := Funcs(nil)
	can := fm["can"].(func(string, string) bool)
	isManager := fm["isManager"].(func() bool)
	if can("property", "create") || isManager() {
		t.Fatal("helpers should deny without a request")
	}
	tp := fm["tp"].(func(string, any) string)
	if got := tp("role_", "agent"); got != "Agent" {
		t.Fatalf("tp = %q", got)
	}
}
