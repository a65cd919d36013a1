package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	GinMode       string `mapstructure:"GIN_MODE"`
}

// LoadConfig reads app.env from path and overlays environment variables.
// A missing app.env is not an error; defaults apply instead.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_SOURCE", "addresses.db")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "release")

	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	switch config.DBDriver {
	case "sqlite", "postgres":
	default:
		return config, fmt.Errorf("config: unsupported DB_DRIVER %q", config.DBDriver)
	}

	return config, nil
}
