package config

import (
	"strings"

	"github.com/spf13/viper"

	"retro-ai-online/backend/internal/model"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Seed values for the default settings record. These only apply the
	// first time the store is initialized (or after a full wipe); afterwards
	// the persisted settings record wins.
	APIURL       string `mapstructure:"API_URL"`
	APIKey       string `mapstructure:"API_KEY"`
	DefaultModel string `mapstructure:"DEFAULT_MODEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "./data/retro.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("API_URL", "http://localhost:5001/v1")
	viper.SetDefault("API_KEY", "")
	viper.SetDefault("DEFAULT_MODEL", "default")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultSettings builds the hardcoded default settings record, with the
// endpoint fields overridable through the environment. A "forget everything"
// wipe resets the stored record back to exactly this.
func (c *Config) DefaultSettings() model.Settings {
	return model.Settings{
		APIURL:      c.APIURL,
		APIKey:      c.APIKey,
		Model:       c.DefaultModel,
		Temperature: 0.7,
		MaxTokens:   2048,
		TopP:        0.9,
		Theme:       "dark",
		AccentColor: "#D4000B",
		FontSize:    16,
	}
}
