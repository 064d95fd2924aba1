package forecast

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"AgencyPulseSaas/api"
	"AgencyPulseSaas/api/constants"
	"AgencyPulseSaas/api/forecast/engine"
	"AgencyPulseSaas/api/forecast/snapshot"
	"AgencyPulseSaas/api/forecast/upload"
	"AgencyPulseSaas/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartForecastService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/forecast/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Forecast Service"))
	})

	mux.Handle("/forecast/revenue", api.TenantMiddleware(pool)(GetRevenueForecast(pool)))
	mux.Handle("/forecast/expenses/upload", api.TenantMiddleware(pool)(upload.UploadExpenseSheetHandler(pool)))

	log.Println("Forecast Service started on", config.ForecastPort)
	err := http.ListenAndServe(config.ForecastPort, mux)
	if err != nil {
		log.Fatalf("Forecast Service failed: %v", err)
	}
}

// GetRevenueForecast computes the full forecast document from a fresh
// snapshot. POST /forecast/revenue, body: {"user_id": "..."}.
// The dash service serves the cached flavor of the same document.
func GetRevenueForecast(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		orgID := api.GetOrgIDFromCtx(r.Context())
		if orgID == "" {
			http.Error(w, constants.ErrNoOrganization, http.StatusBadRequest)
			return
		}

		snap, err := snapshot.Load(r.Context(), pool, orgID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		doc := engine.Build(time.Now().UTC(), snap)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"forecast":             doc,
		})
	}
}
