package config

// Application constants
const (
	AppName     = "Painel Educacional"
	RepoURL     = "https://github.com/David1r20/painel-educacional"
	APIBasePath = "/api"

	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
