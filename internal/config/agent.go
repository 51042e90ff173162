package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AgentConfig configures the notifier agent. All values come from the
// environment with the AGENT_ prefix, e.g. AGENT_API_URL.
type AgentConfig struct {
	APIURL        string        `envconfig:"API_URL" required:"true"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" required:"true"`
	StaffID       string        `envconfig:"STAFF_ID" required:"true"`
	SyncInterval  time.Duration `envconfig:"SYNC_INTERVAL" default:"10m"`
	CheckInterval time.Duration `envconfig:"CHECK_INTERVAL" default:"60s"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`

	RedisURL     string `envconfig:"REDIS_URL"`
	ToastChannel string `envconfig:"TOAST_CHANNEL" default:"toasts"`

	PushGatewayURL string `envconfig:"PUSH_GATEWAY_URL"`

	SMTPHost    string `envconfig:"SMTP_HOST"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"SMTP_USER"`
	SMTPPass    string `envconfig:"SMTP_PASS"`
	EmailFrom   string `envconfig:"EMAIL_FROM"`
	OnCallEmail string `envconfig:"ONCALL_EMAIL"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
}

func LoadAgentConfig() (*AgentConfig, error) {
	var cfg AgentConfig
	if err := envconfig.Process("agent", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process agent config: %w", err)
	}
	return &cfg, nil
}
