package config

const (
	DefaultTimeZone = "UTC"

	// Forecast refresher
	DefaultRefreshSchedule = "*/15 * * * *"
	RefreshBatchSize       = 50

	// Forecast cache
	DefaultCacheTTLSeconds = 300

	// Service ports
	GatewayPort  = ":8081"
	DashPort     = ":4143"
	ForecastPort = ":6143"
)
