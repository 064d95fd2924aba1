package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"AgencyPulseSaas/api/forecast/engine"
	"AgencyPulseSaas/api/forecast/snapshot"
	"AgencyPulseSaas/internal/cache"
	"AgencyPulseSaas/internal/config"
	"AgencyPulseSaas/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// ForecastRefresher recomputes forecast documents for active organizations on
// a cron schedule and pre-warms the shared cache, so dashboard reads rarely
// pay the full snapshot cost.
type ForecastRefresher struct {
	pool     *pgxpool.Pool
	cache    *cache.TTLCache
	schedule string
	cron     *cron.Cron
}

func NewForecastRefresher(pool *pgxpool.Pool, c *cache.TTLCache) *ForecastRefresher {
	return &ForecastRefresher{
		pool:     pool,
		cache:    c,
		schedule: config.DefaultRefreshSchedule,
	}
}

func (f *ForecastRefresher) Name() string { return "forecast-refresher" }

func (f *ForecastRefresher) Start() error {
	if f.pool == nil || f.cache == nil {
		log.Println("[ForecastRefresher] pool or cache not configured, refresher disabled")
		return nil
	}
	f.cron = cron.New()
	_, err := f.cron.AddFunc(f.schedule, f.runOnce)
	if err != nil {
		return fmt.Errorf("schedule refresher (%q): %w", f.schedule, err)
	}
	f.cron.Start()
	log.Println("[ForecastRefresher] started with schedule", f.schedule)
	return nil
}

func (f *ForecastRefresher) Stop() error {
	if f.cron != nil {
		f.cron.Stop()
	}
	return nil
}

func (f *ForecastRefresher) runOnce() {
	runID := uuid.NewString()
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	f.cache.Purge()

	orgs, err := f.activeOrgs(ctx)
	if err != nil {
		log.Printf("[ForecastRefresher] run %s: listing orgs failed: %v", runID, err)
		return
	}

	refreshed := 0
	for _, orgID := range orgs {
		snap, err := snapshot.Load(ctx, f.pool, orgID)
		if err != nil {
			log.Printf("[ForecastRefresher] run %s: org %s snapshot failed: %v", runID, orgID, err)
			continue
		}
		now := time.Now().UTC()
		doc := engine.Build(now, snap)
		f.cache.Put(f.cache.Key(orgID, now), doc)
		refreshed++
	}

	msg := fmt.Sprintf("forecast refresh run %s: %d/%d orgs in %s", runID, refreshed, len(orgs), time.Since(start).Round(time.Millisecond))
	log.Println("[ForecastRefresher]", msg)
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
	}
}

// activeOrgs lists organizations worth pre-warming, capped per run so one
// refresh can't monopolize the pool on large installs.
func (f *ForecastRefresher) activeOrgs(ctx context.Context) ([]string, error) {
	rows, err := f.pool.Query(ctx, `
		SELECT org_id
		FROM organizations
		WHERE status = 'active'
		ORDER BY updated_at DESC NULLS LAST
		LIMIT $1`, config.RefreshBatchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		orgs = append(orgs, id)
	}
	return orgs, rows.Err()
}
