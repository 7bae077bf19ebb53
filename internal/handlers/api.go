package handlers

import (
	"net/http"

	"github.com/diewo77/immo-gestion/httpx"
	"github.com/diewo77/immo-gestion/internal/logging"
)

// StatisticsData feeds the dashboard charts.
func StatisticsData(svc *Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := svc.Reporting.Dashboard(r.Context())
		if err != nil {
			logging.FromContext(r.Context()).Error("statistics", "err", err)
			httpx.JSONError(w, http.StatusInternalServerError, "statistics_unavailable", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, dash)
	}
}

// Health reports whether the database answers.
func Health(svc *Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Gateway.Ping(r.Context()); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, httpx.StatusResponse{Status: "unavailable"})
			return
		}
		httpx.JSON(w, http.StatusOK, httpx.StatusResponse{Status: "ok"})
	}
}
