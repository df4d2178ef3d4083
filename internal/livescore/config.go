package livescore

import "time"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://prod-public-api.livescore.com/v1/api/app",
		Timeout: 10 * time.Second,
	}
}
