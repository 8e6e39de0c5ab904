package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/A-ndrey/spdesk/internal/blob"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	Server      struct {
		Host string `mapstructure:"host"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`
	Registration struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"registration"`
	Frontend struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"frontend"`
	TOTP struct {
		Issuer string `mapstructure:"issuer"`
	} `mapstructure:"totp"`
	HTTP struct {
		BodyLimit     int64 `mapstructure:"body_limit"`
		RateLimit     int   `mapstructure:"rate_limit"`
		AuthRateLimit int   `mapstructure:"auth_rate_limit"`
	} `mapstructure:"http"`
	Absences struct {
		SweepInterval time.Duration `mapstructure:"sweep_interval"`
	} `mapstructure:"absences"`
	Storage struct {
		S3 blob.S3Config `mapstructure:"s3"`
	} `mapstructure:"storage"`
}

// every key needs a default so AutomaticEnv can override it during Unmarshal
var defaults = map[string]any{
	"environment":             "prod",
	"server.host":             "0.0.0.0",
	"server.port":             "3000",
	"database.url":            "sqlite:socialpreview.db",
	"jwt.secret":              "",
	"jwt.ttl":                 "168h",
	"registration.secret":     "",
	"frontend.url":            "http://localhost:5173",
	"totp.issuer":             "SocialPreview Dashboard",
	"http.body_limit":         50 << 20,
	"http.rate_limit":         100,
	"http.auth_rate_limit":    5,
	"absences.sweep_interval": "10m",
	"storage.s3.bucket":       "",
	"storage.s3.region":       "",
	"storage.s3.endpoint":     "",
	"storage.s3.access_key":   "",
	"storage.s3.secret_key":   "",
}

func readConfig(paths ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("can't read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return Config{}, errors.New("jwt.secret is required")
	}
	if cfg.Registration.Secret == "" {
		return Config{}, errors.New("registration.secret is required")
	}

	return cfg, nil
}
