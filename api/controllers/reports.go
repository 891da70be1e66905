package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/wrapntrack/wrapntrack-backend/api/responses"
	"github.com/wrapntrack/wrapntrack-backend/api/validators"
	"github.com/wrapntrack/wrapntrack-backend/internal/reports"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

const defaultExpiryWindowDays = 30

// ReportStockSummary aggregates the active catalog.
func ReportStockSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.StockSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ReportLowStock lists items at or under their reorder threshold.
func ReportLowStock(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// ReportExpiring lists items whose expiration date falls inside the window.
func ReportExpiring(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", defaultExpiryWindowDays, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Expiring(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items, "window_days": days})
	}
}

// ReportABC ranks items by stock value into A, B, and C tiers.
func ReportABC(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ABCAnalysis(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}

// ReportTurnover reports units ordered against stock on hand since a date.
func ReportTurnover(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		since := time.Now().UTC().AddDate(0, 0, -days)
		entries, err := svc.Turnover(r.Context(), since)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": entries, "since": since})
	}
}

// ReportMovement buckets ordered units per day inside a date range. The
// range comes from "from" and "to" query parameters in YYYY-MM-DD form.
func ReportMovement(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseDateParam(r, "from", time.Now().UTC().AddDate(0, 0, -30))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseDateParam(r, "to", time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buckets, err := svc.Movement(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"buckets": buckets})
	}
}

// ReportSupplierPerformance summarizes the active catalog per supplier.
func ReportSupplierPerformance(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.SupplierPerformance(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"suppliers": entries})
	}
}

func parseDateParam(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD").WithDetails(map[string]any{"field": key})
	}
	return parsed, nil
}
