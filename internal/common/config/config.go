package config

import "fmt"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	LiveScore LiveScoreConfig `mapstructure:"livescore"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type OpenAIConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	ClassifierModel string `mapstructure:"classifier_model"`
	GeneratorModel  string `mapstructure:"generator_model"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	MaxRetries      int    `mapstructure:"max_retries"`
}

type LiveScoreConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type PromptsConfig struct {
	Dir string `mapstructure:"dir"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (set OPENAI_API_KEY)")
	}
	if cfg.OpenAI.ClassifierModel == "" || cfg.OpenAI.GeneratorModel == "" {
		return fmt.Errorf("openai classifier and generator models must be set")
	}
	if cfg.LiveScore.BaseURL == "" {
		return fmt.Errorf("livescore.base_url must not be empty")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "cricbot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.ClassifierModel == "" {
		cfg.OpenAI.ClassifierModel = "gpt-3.5-turbo"
	}
	if cfg.OpenAI.GeneratorModel == "" {
		cfg.OpenAI.GeneratorModel = "gpt-4o"
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 30000
	}
	if cfg.OpenAI.MaxRetries == 0 {
		cfg.OpenAI.MaxRetries = 2
	}
	if cfg.LiveScore.BaseURL == "" {
		cfg.LiveScore.BaseURL = "https://prod-public-api.livescore.com/v1/api/app"
	}
	if cfg.LiveScore.Timeout == 0 {
		cfg.LiveScore.Timeout = 10000
	}
	if cfg.Prompts.Dir == "" {
		cfg.Prompts.Dir = "prompts"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9102"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
