package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API         *APIConfig         `mapstructure:"api"`
	Gin         *GinConfig         `mapstructure:"gin"`
	Postgres    *PostgresConfig    `mapstructure:"postgres"`
	Redis       *RedisConfig       `mapstructure:"redis"`
	Reservation *ReservationConfig `mapstructure:"reservation"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig is optional. An empty Addr disables the live feed and routes
// analytics events to the log recorder.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type ReservationConfig struct {
	MinDurationMinutes   int  `mapstructure:"min_duration_minutes"`
	MaxDurationMinutes   int  `mapstructure:"max_duration_minutes"`
	NoShowGraceMinutes   int  `mapstructure:"no_show_grace_minutes"`
	SweepIntervalSeconds int  `mapstructure:"sweep_interval_seconds"`
	LegacyUnlockCodes    bool `mapstructure:"legacy_unlock_codes"`
}

// Load reads the YAML config at path and lets environment variables
// override any key (nested keys use underscores, e.g. API_PORT).
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	return conf, nil
}
