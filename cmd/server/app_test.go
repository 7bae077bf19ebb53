package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/immo-gestion/internal/config"
	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/logging"
	"github.com/diewo77/immo-gestion/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupE2E(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:e2e_"+t.Name()+"?mode=memory&cache=shared"), db.GormConfig(false))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(dbi); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := &config.Config{App: config.AppConfig{
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
		DefaultLang:   "fr",
	}}
	srv := httptest.NewServer(NewApp(dbi, cfg, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv, dbi
}

// browser keeps cookies and follows the 303 back to the dispatcher.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &browser{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) read(resp *http.Response, err error) (int, string) {
	b.t.Helper()
	if err != nil {
		b.t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	return b.read(b.client.Get(b.base + path))
}

func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	return b.read(b.client.PostForm(b.base+path, form))
}

func (b *browser) login(username string) string {
	b.t.Helper()
	_, body := b.post("/login", url.Values{"username": {username}, "password": {db.SeedPassword}})
	if !strings.Contains(body, "Connexion réussie") {
		b.t.Fatalf("login %s failed: %s", username, body)
	}
	return body
}

func (b *browser) nav(page string) string {
	b.t.Helper()
	_, body := b.post("/nav", url.Values{"page": {page}})
	return body
}

func mustContain(t *testing.T, body string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Fatalf("body missing %q:\n%s", p, body)
		}
	}
}

func propertyID(t *testing.T, dbi *gorm.DB, titre string) string {
	t.Helper()
	var p models.Property
	if err := dbi.Where("titre = ?", titre).First(&p).Error; err != nil {
		t.Fatalf("property %q: %v", titre, err)
	}
	return uintString(p.ID)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestPublicBrowsing(t *testing.T) {
	srv, _ := setupE2E(t)
	b := newBrowser(t, srv)

	code, body := b.get("/")
	if code != http.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
	mustContain(t, body, "Maison Familiale avec Jardin", "Superbe Appartement T3", "Filtres")

	_, body = b.get("/?type_bien=Maison")
	mustContain(t, body, "Maison Familiale avec Jardin")
	if strings.Contains(body, "Superbe Appartement T3") {
		t.Fatalf("filter ignored: %s", body)
	}

	_, body = b.post("/panel", url.Values{"panel": {"login"}})
	mustContain(t, body, `action="/login"`)
	_, body = b.post("/panel", url.Values{"panel": {"login"}})
	if strings.Contains(body, `action="/login"`) {
		t.Fatalf("second toggle should hide the login form")
	}
}

func TestLoginFailureKeepsPublicPage(t *testing.T) {
	srv, _ := setupE2E(t)
	b := newBrowser(t, srv)
	_, body := b.post("/login", url.Values{"username": {"client1"}, "password": {"wrong"}})
	mustContain(t, body, "Identifiants invalides", `action="/login"`)
}

func TestRegisterRejectsStaffRole(t *testing.T) {
	srv, dbi := setupE2E(t)
	b := newBrowser(t, srv)
	_, body := b.post("/register", url.Values{
		"username": {"eve"}, "password": {"pw"}, "email": {"eve@x"}, "nom": {"Eve"}, "role": {"manager"},
	})
	mustContain(t, body, "Choix invalide")
	var count int64
	dbi.Model(&models.User{}).Where("username = ?", "eve").Count(&count)
	if count != 0 {
		t.Fatalf("staff account was created")
	}

	_, body = b.post("/register", url.Values{
		"username": {"eve"}, "password": {"pw"}, "email": {"eve@x"}, "nom": {"Eve"}, "role": {"client"},
	})
	mustContain(t, body, "Compte créé")
	_, body = b.post("/login", url.Values{"username": {"eve"}, "password": {"pw"}})
	mustContain(t, body, "Mes favoris")
}

func TestClientFavoritesAndBooking(t *testing.T) {
	srv, dbi := setupE2E(t)
	client := newBrowser(t, srv)
	body := client.login("client1")
	mustContain(t, body, "Biens disponibles", "Mes favoris", "Rendez-vous")
	if strings.Contains(body, "Statistiques") {
		t.Fatalf("client menu should not list statistics")
	}

	id := propertyID(t, dbi, "Maison Familiale avec Jardin")
	_, body = client.post("/favorites/"+id, nil)
	mustContain(t, body, "Ajouté aux favoris")
	client.post("/favorites/"+id, nil)
	var favs int64
	dbi.Model(&models.Favorite{}).Count(&favs)
	if favs != 1 {
		t.Fatalf("expected 1 favorite got %d", favs)
	}
	body = client.nav("favorites")
	mustContain(t, body, "Maison Familiale avec Jardin")

	client.nav("properties")
	_, body = client.post("/properties/"+id+"/booking", nil)
	mustContain(t, body, `action="/appointments"`)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, body = client.post("/appointments", url.Values{
		"property_id": {id}, "date_rdv": {tomorrow}, "type_rdv": {"visite"}, "notes": {"Le matin"},
	})
	mustContain(t, body, "Rendez-vous demandé")
	if strings.Contains(body, `action="/appointments"`) {
		t.Fatalf("booking form should close after booking")
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, body = client.post("/appointments", url.Values{
		"property_id": {id}, "date_rdv": {yesterday}, "type_rdv": {"visite"},
	})
	mustContain(t, body, "dans le passé")

	agent := newBrowser(t, srv)
	agent.login("agent1")
	body = agent.nav("appointments")
	mustContain(t, body, "Paul Durand", "En attente", `value="confirmed"`)

	var a models.Appointment
	if err := dbi.First(&a).Error; err != nil {
		t.Fatal(err)
	}
	_, body = agent.post("/appointments/"+uintString(a.ID)+"/status", url.Values{"status": {"confirmed"}})
	mustContain(t, body, "Rendez-vous mis à jour", "Confirmé")

	// a confirmed appointment can no longer be cancelled by the client
	_, body = client.post("/appointments/"+uintString(a.ID)+"/status", url.Values{"status": {"cancelled"}})
	mustContain(t, body, "Changement de statut impossible")
}

func TestBookingWithoutAgentIsRejected(t *testing.T) {
	srv, dbi := setupE2E(t)
	landlord := newBrowser(t, srv)
	landlord.login("bailleur1")
	landlord.nav("add_property")
	_, body := landlord.post("/properties", url.Values{
		"titre": {"Studio sans agent"}, "type_bien": {"Appartement"}, "usage_possible": {"Résidentiel"},
		"transaction_type": {"location"}, "situation_geo": {"Lyon"}, "taille": {"20"}, "prix": {"550"},
		"description": {"Petit studio"},
	})
	mustContain(t, body, "Bien ajouté")

	id := propertyID(t, dbi, "Studio sans agent")
	client := newBrowser(t, srv)
	client.login("client1")
	_, body = client.post("/appointments", url.Values{
		"property_id": {id}, "date_rdv": {time.Now().AddDate(0, 0, 2).Format("2006-01-02")}, "type_rdv": {"visite"},
	})
	mustContain(t, body, "Aucun agent")
	var count int64
	dbi.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatalf("appointment stored without agent")
	}
}

func TestLandlordEditsOwnPropertyOnly(t *testing.T) {
	srv, dbi := setupE2E(t)
	id := propertyID(t, dbi, "Maison Familiale avec Jardin")

	landlord := newBrowser(t, srv)
	landlord.login("bailleur1")
	landlord.nav("my_properties")
	_, body := landlord.post("/properties/"+id+"/edit", nil)
	mustContain(t, body, `action="/properties/`+id+`"`)

	_, body = landlord.post("/properties/"+id, url.Values{
		"titre": {"Maison rénovée"}, "type_bien": {"Maison"}, "transaction_type": {"vente"},
		"taille": {"120"}, "prix": {"390000"}, "description": {"Refaite à neuf"},
	})
	mustContain(t, body, "Bien mis à jour", "Maison rénovée")

	_, body = landlord.post("/properties/"+id+"/availability", nil)
	mustContain(t, body, "Bien retiré de la vente")

	client := newBrowser(t, srv)
	code, _ := client.post("/properties/"+id, url.Values{"titre": {"hack"}})
	if code != http.StatusOK {
		t.Fatalf("anonymous update should end on the public page, got %d", code)
	}
	client.login("client1")
	_, body = client.post("/properties/"+id, url.Values{"titre": {"hack"}, "prix": {"1"}})
	mustContain(t, body, "Action non autorisée")

	var p models.Property
	dbi.First(&p, id)
	if p.Titre != "Maison rénovée" || p.IsAvailable {
		t.Fatalf("unexpected property state: %+v", p)
	}
}

func TestManagerStatisticsAndUserManagement(t *testing.T) {
	srv, dbi := setupE2E(t)
	manager := newBrowser(t, srv)
	body := manager.login("admin")
	mustContain(t, body, "Statistiques", "Gestion des utilisateurs")

	body = manager.nav("statistics")
	mustContain(t, body, "Valeur du portefeuille", "Performance des agents")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/statistics/data", nil)
	req.Header.Set("Accept", "application/json")
	code, raw := manager.read(manager.client.Do(req))
	if code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, raw)
	}
	var dash struct {
		TotalProperties int64 `json:"total_properties"`
	}
	if err := json.Unmarshal([]byte(raw), &dash); err != nil || dash.TotalProperties != 2 {
		t.Fatalf("dashboard = %+v, err %v", dash, err)
	}

	var client, agent models.User
	dbi.Where("username = ?", "client1").First(&client)
	dbi.Where("username = ?", "agent1").First(&agent)

	manager.nav("manage_users")
	_, body = manager.post("/admin/assignments", url.Values{
		"client_id": {uintString(client.ID)}, "agent_id": {uintString(agent.ID)},
	})
	mustContain(t, body, "Client assigné")

	agentBrowser := newBrowser(t, srv)
	agentBrowser.login("agent1")
	_, body = agentBrowser.post("/admin/assignments", url.Values{
		"client_id": {uintString(client.ID)}, "agent_id": {uintString(agent.ID)},
	})
	mustContain(t, body, "Action non autorisée")
	var assignments int64
	dbi.Model(&models.ClientAssignment{}).Where("client_id = ?", client.ID).Count(&assignments)
	if assignments != 1 {
		t.Fatalf("agent created an assignment: %d rows", assignments)
	}

	other := newBrowser(t, srv)
	other.login("client1")
	_, body = manager.post("/admin/users/"+uintString(client.ID)+"/active", url.Values{"active": {"false"}})
	mustContain(t, body, "Utilisateur mis à jour")

	// the deactivated client's session no longer authenticates
	_, body = other.get("/")
	mustContain(t, body, `action="/panel"`)
	_, body = other.post("/login", url.Values{"username": {"client1"}, "password": {db.SeedPassword}})
	mustContain(t, body, "Identifiants invalides")
}

func TestStatisticsForbiddenToClient(t *testing.T) {
	srv, _ := setupE2E(t)
	b := newBrowser(t, srv)
	b.login("client1")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/statistics/data", nil)
	req.Header.Set("Accept", "application/json")
	code, body := b.read(b.client.Do(req))
	if code != http.StatusForbidden || !strings.Contains(body, "forbidden") {
		t.Fatalf("expected 403 forbidden got %d: %s", code, body)
	}

	// a hidden page stays empty rather than failing
	body = b.nav("statistics")
	if strings.Contains(body, "Valeur du portefeuille") {
		t.Fatalf("client saw statistics")
	}
}

func TestHealthAndLanguage(t *testing.T) {
	srv, _ := setupE2E(t)
	b := newBrowser(t, srv)

	code, body := b.get("/healthz")
	if code != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("health: %d %s", code, body)
	}

	_, body = b.get("/?lang=en")
	mustContain(t, body, "Available properties", "Log in")
	_, body = b.get("/")
	mustContain(t, body, "Available properties")

	code, _ = b.get("/nope")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", code)
	}
}
