package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// Activity notifier (webhook). Disabled when NotifyWebhookURL is empty.
	NotifyWebhookURL string
	NotifyAPIKey     string
	NotifyThreshold  int
	NotifyCooldown   time.Duration
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("PAIRUP_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("PAIRUP_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("PAIRUP_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		IdleTimeout:       EnvDuration("PAIRUP_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PAIRUP_HTTP_MAX_HEADER_BYTES", 1<<20),

		NotifyWebhookURL: EnvString("PAIRUP_NOTIFY_WEBHOOK_URL", ""),
		NotifyAPIKey:     EnvString("PAIRUP_NOTIFY_API_KEY", ""),
		NotifyThreshold:  EnvInt("PAIRUP_NOTIFY_THRESHOLD", 1),
		NotifyCooldown:   EnvDuration("PAIRUP_NOTIFY_COOLDOWN", 5*time.Minute),
	}
}
