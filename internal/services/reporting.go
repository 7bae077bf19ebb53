package services

import (
	"context"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
)

// Counts maps a category label to a row count.
type Counts map[string]int64

// Total sums every category.
func (c Counts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// Table is a tabular report with named columns. Rows is never nil.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func newTable(columns ...string) Table {
	return Table{Columns: columns, Rows: [][]any{}}
}

func (t *Table) add(values ...any) {
	t.Rows = append(t.Rows, values)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

type PropertyAnalytics struct {
	Types      Counts `json:"types"`
	PriceStats Table  `json:"price_stats"`
	Geography  Table  `json:"geography"`
}

type AssignmentStats struct {
	Total         int64 `json:"total"`
	UniqueClients int64 `json:"unique_clients"`
	UniqueAgents  int64 `json:"unique_agents"`
}

type UserAnalytics struct {
	Roles       Counts          `json:"roles"`
	Assignments AssignmentStats `json:"assignments"`
}

type AppointmentAnalytics struct {
	Status           Counts `json:"status"`
	Types            Counts `json:"types"`
	AgentPerformance Table  `json:"agent_performance"`
}

type BusinessMetrics struct {
	PortfolioValue float64 `json:"portfolio_value"`
	AveragePrice   float64 `json:"average_price"`
	Completed      int64   `json:"completed"`
	Appointments   int64   `json:"appointments"`
	// ConversionRate is completed/appointments in percent, 0 without appointments.
	ConversionRate float64 `json:"conversion_rate"`
	Combinations   Table   `json:"combinations"`
	MostFavorited  Table   `json:"most_favorited"`
}

// Dashboard bundles the KPI tiles and the four report groups.
type Dashboard struct {
	TotalProperties   int64                `json:"total_properties"`
	ActiveUsers       int64                `json:"active_users"`
	TotalAppointments int64                `json:"total_appointments"`
	PortfolioValue    float64              `json:"portfolio_value"`
	Properties        PropertyAnalytics    `json:"properties"`
	Users             UserAnalytics        `json:"users"`
	Appointments      AppointmentAnalytics `json:"appointments"`
	Business          BusinessMetrics      `json:"business"`
}

// ReportingService computes read-only aggregates. Empty tables give empty
// results, never errors.
type ReportingService struct {
	gw *db.Gateway
}

func NewReportingService(gw *db.Gateway) *ReportingService {
	return &ReportingService{gw: gw}
}

type labelCount struct {
	Label string
	Count int64
}

func (s *ReportingService) counts(ctx context.Context, query string, args ...any) (Counts, error) {
	var rows []labelCount
	if err := s.gw.Execute(ctx, db.FetchAll, &rows, query, args...); err != nil {
		return nil, err
	}
	out := Counts{}
	for _, r := range rows {
		out[r.Label] = r.Count
	}
	return out, nil
}

func (s *ReportingService) PropertyAnalytics(ctx context.Context) (PropertyAnalytics, error) {
	var out PropertyAnalytics
	var err error

	out.Types, err = s.counts(ctx,
		"SELECT type_bien AS label, COUNT(*) AS count FROM properties WHERE is_available = ? GROUP BY type_bien", true)
	if err != nil {
		return out, err
	}

	var prices []struct {
		TransactionType string
		AvgPrice        float64
		MinPrice        float64
		MaxPrice        float64
	}
	err = s.gw.Execute(ctx, db.FetchAll, &prices,
		`SELECT transaction_type, AVG(prix) AS avg_price, MIN(prix) AS min_price, MAX(prix) AS max_price
		FROM properties WHERE is_available = ? GROUP BY transaction_type ORDER BY transaction_type`, true)
	if err != nil {
		return out, err
	}
	out.PriceStats = newTable("transaction_type", "avg_price", "min_price", "max_price")
	for _, p := range prices {
		out.PriceStats.add(p.TransactionType, p.AvgPrice, p.MinPrice, p.MaxPrice)
	}

	var geo []labelCount
	err = s.gw.Execute(ctx, db.FetchAll, &geo,
		`SELECT situation_geo AS label, COUNT(*) AS count FROM properties WHERE is_available = ?
		GROUP BY situation_geo ORDER BY count DESC, situation_geo LIMIT 10`, true)
	if err != nil {
		return out, err
	}
	out.Geography = newTable("situation_geo", "count")
	for _, g := range geo {
		out.Geography.add(g.Label, g.Count)
	}
	return out, nil
}

func (s *ReportingService) UserAnalytics(ctx context.Context) (UserAnalytics, error) {
	var out UserAnalytics
	var err error

	out.Roles, err = s.counts(ctx,
		"SELECT role AS label, COUNT(*) AS count FROM users WHERE is_active = ? GROUP BY role", true)
	if err != nil {
		return out, err
	}
	err = s.gw.Execute(ctx, db.FetchOne, &out.Assignments,
		`SELECT COUNT(*) AS total, COUNT(DISTINCT client_id) AS unique_clients, COUNT(DISTINCT agent_id) AS unique_agents
		FROM client_assignments WHERE is_active = ?`, true)
	return out, err
}

func (s *ReportingService) AppointmentAnalytics(ctx context.Context) (AppointmentAnalytics, error) {
	var out AppointmentAnalytics
	var err error

	if out.Status, err = s.counts(ctx, "SELECT status AS label, COUNT(*) AS count FROM appointments GROUP BY status"); err != nil {
		return out, err
	}
	if out.Types, err = s.counts(ctx, "SELECT type_rdv AS label, COUNT(*) AS count FROM appointments GROUP BY type_rdv"); err != nil {
		return out, err
	}

	var perf []struct {
		Nom     string
		Prenom  string
		Handled int64
	}
	err = s.gw.Execute(ctx, db.FetchAll, &perf,
		`SELECT u.nom, u.prenom, COUNT(a.id) AS handled
		FROM users u LEFT JOIN appointments a ON u.id = a.agent_id
		WHERE u.role IN (?, ?) AND u.is_active = ?
		GROUP BY u.id, u.nom, u.prenom ORDER BY handled DESC, u.nom`,
		string(models.RoleAgent), string(models.RoleManager), true)
	if err != nil {
		return out, err
	}
	out.AgentPerformance = newTable("nom", "prenom", "handled")
	for _, p := range perf {
		out.AgentPerformance.add(p.Nom, p.Prenom, p.Handled)
	}
	return out, nil
}

func (s *ReportingService) BusinessMetrics(ctx context.Context) (BusinessMetrics, error) {
	var out BusinessMetrics

	var value struct {
		TotalValue float64
		AvgPrice   float64
	}
	err := s.gw.Execute(ctx, db.FetchOne, &value,
		"SELECT COALESCE(SUM(prix), 0) AS total_value, COALESCE(AVG(prix), 0) AS avg_price FROM properties WHERE is_available = ?", true)
	if err != nil {
		return out, err
	}
	out.PortfolioValue, out.AveragePrice = value.TotalValue, value.AvgPrice

	var conv struct {
		Completed int64
		Total     int64
	}
	err = s.gw.Execute(ctx, db.FetchOne, &conv,
		"SELECT COUNT(CASE WHEN status = ? THEN 1 END) AS completed, COUNT(*) AS total FROM appointments",
		string(models.StatusCompleted))
	if err != nil {
		return out, err
	}
	out.Completed, out.Appointments = conv.Completed, conv.Total
	out.ConversionRate = ConversionRate(conv.Completed, conv.Total)

	var combos []struct {
		TypeBien        string
		TransactionType string
		Count           int64
	}
	err = s.gw.Execute(ctx, db.FetchAll, &combos,
		`SELECT type_bien, transaction_type, COUNT(*) AS count FROM properties WHERE is_available = ?
		GROUP BY type_bien, transaction_type ORDER BY count DESC, type_bien, transaction_type`, true)
	if err != nil {
		return out, err
	}
	out.Combinations = newTable("type_bien", "transaction_type", "count")
	for _, c := range combos {
		out.Combinations.add(c.TypeBien, c.TransactionType, c.Count)
	}

	var favs []struct {
		Titre         string
		FavoriteCount int64
	}
	err = s.gw.Execute(ctx, db.FetchAll, &favs,
		`SELECT p.titre, COUNT(f.id) AS favorite_count
		FROM properties p LEFT JOIN favorites f ON p.id = f.property_id
		WHERE p.is_available = ? GROUP BY p.id, p.titre ORDER BY favorite_count DESC, p.id LIMIT 10`, true)
	if err != nil {
		return out, err
	}
	out.MostFavorited = newTable("titre", "favorite_count")
	for _, f := range favs {
		out.MostFavorited.add(f.Titre, f.FavoriteCount)
	}
	return out, nil
}

// ConversionRate returns completed/total as a percentage, 0 when total is 0.
func ConversionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Dashboard computes every report group and the KPI tiles.
func (s *ReportingService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error
	if d.Properties, err = s.PropertyAnalytics(ctx); err != nil {
		return nil, err
	}
	if d.Users, err = s.UserAnalytics(ctx); err != nil {
		return nil, err
	}
	if d.Appointments, err = s.AppointmentAnalytics(ctx); err != nil {
		return nil, err
	}
	if d.Business, err = s.BusinessMetrics(ctx); err != nil {
		return nil, err
	}
	d.TotalProperties = d.Properties.Types.Total()
	d.ActiveUsers = d.Users.Roles.Total()
	d.TotalAppointments = d.Business.Appointments
	d.PortfolioValue = d.Business.PortfolioValue
	return &d, nil
}
