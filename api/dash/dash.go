package dash

import (
	"log"
	"net/http"

	"AgencyPulseSaas/api"
	"AgencyPulseSaas/api/dash/revenueforecast"
	"AgencyPulseSaas/internal/cache"
	"AgencyPulseSaas/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartDashService(pool *pgxpool.Pool, c *cache.TTLCache) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Dash Service"))
	})

	withTenant := api.TenantMiddleware(pool)
	mux.Handle("/dash/forecast", withTenant(revenueforecast.GetForecastDashboard(pool, c)))
	mux.Handle("/dash/forecast/weekly", withTenant(revenueforecast.GetWeeklyTimeline(pool, c)))
	mux.Handle("/dash/forecast/monthly", withTenant(revenueforecast.GetMonthlyTrend(pool, c)))
	mux.Handle("/dash/forecast/export", withTenant(revenueforecast.ExportForecastSheet(pool, c)))

	log.Println("Dash Service started on", config.DashPort)
	err := http.ListenAndServe(config.DashPort, mux)
	if err != nil {
		log.Fatalf("Dash Service failed: %v", err)
	}
}
