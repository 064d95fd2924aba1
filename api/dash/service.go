package dash

import (
	"AgencyPulseSaas/internal/cache"
	"AgencyPulseSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DashService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	cache  *cache.TTLCache
}

func NewDashService(cfg map[string]interface{}, pool *pgxpool.Pool, c *cache.TTLCache) serviceiface.Service {
	return &DashService{config: cfg, pool: pool, cache: c}
}

func (s *DashService) Name() string {
	return "dash"
}

func (s *DashService) Start() error {
	go StartDashService(s.pool, s.cache)
	return nil
}

func (s *DashService) Stop() error {
	return nil
}
