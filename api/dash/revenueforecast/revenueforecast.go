package revenueforecast

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"AgencyPulseSaas/api"
	"AgencyPulseSaas/api/constants"
	"AgencyPulseSaas/api/forecast/engine"
	"AgencyPulseSaas/api/forecast/snapshot"
	"AgencyPulseSaas/internal/cache"

	"github.com/jackc/pgx/v5/pgxpool"
)

// loadDocument returns the tenant's forecast document, serving from the shared
// cache when a warm entry exists. The bool reports a cache hit.
func loadDocument(ctx context.Context, pool *pgxpool.Pool, c *cache.TTLCache, orgID string) (engine.Document, bool, error) {
	now := time.Now().UTC()
	var key string
	if c != nil {
		key = c.Key(orgID, now)
		if v, ok := c.Get(key); ok {
			if doc, ok := v.(engine.Document); ok {
				return doc, true, nil
			}
		}
	}

	snap, err := snapshot.Load(ctx, pool, orgID)
	if err != nil {
		return engine.Document{}, false, err
	}
	doc := engine.Build(now, snap)
	if c != nil {
		c.Put(key, doc)
	}
	return doc, false, nil
}

func resolveOrg(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return "", false
	}
	orgID := api.GetOrgIDFromCtx(r.Context())
	if orgID == "" {
		http.Error(w, constants.ErrNoOrganization, http.StatusBadRequest)
		return "", false
	}
	return orgID, true
}

// GetForecastDashboard serves the full forecast document for the dashboard
// landing view. POST /dash/forecast, body: {"user_id": "..."}.
func GetForecastDashboard(pool *pgxpool.Pool, c *cache.TTLCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := resolveOrg(w, r)
		if !ok {
			return
		}
		doc, cached, err := loadDocument(r.Context(), pool, c, orgID)
		if err != nil {
			log.Println("[ERROR] forecast dashboard:", err)
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"cached":               cached,
			"forecast":             doc,
		})
	}
}

// GetWeeklyTimeline serves only the 12-week cash timeline.
func GetWeeklyTimeline(pool *pgxpool.Pool, c *cache.TTLCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := resolveOrg(w, r)
		if !ok {
			return
		}
		doc, cached, err := loadDocument(r.Context(), pool, c, orgID)
		if err != nil {
			log.Println("[ERROR] weekly timeline:", err)
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"cached":               cached,
			"weeklyTimeline":       doc.WeeklyTimeline,
		})
	}
}

// GetMonthlyTrend serves only the trailing six-month revenue/expense trend.
func GetMonthlyTrend(pool *pgxpool.Pool, c *cache.TTLCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := resolveOrg(w, r)
		if !ok {
			return
		}
		doc, cached, err := loadDocument(r.Context(), pool, c, orgID)
		if err != nil {
			log.Println("[ERROR] monthly trend:", err)
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"cached":               cached,
			"monthlyRevenue":       doc.MonthlyRevenue,
		})
	}
}

// ExportForecastSheet streams the forecast document as an xlsx workbook.
func ExportForecastSheet(pool *pgxpool.Pool, c *cache.TTLCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := resolveOrg(w, r)
		if !ok {
			return
		}
		doc, _, err := loadDocument(r.Context(), pool, c, orgID)
		if err != nil {
			log.Println("[ERROR] forecast export:", err)
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}

		f, err := buildForecastWorkbook(doc)
		if err != nil {
			log.Println("[ERROR] forecast workbook:", err)
			http.Error(w, "failed to build workbook", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		filename := fmt.Sprintf("forecast_%s.xlsx", time.Now().UTC().Format(constants.DateFormat))
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		if err := f.Write(w); err != nil {
			log.Println("[ERROR] writing workbook:", err)
		}
	}
}
