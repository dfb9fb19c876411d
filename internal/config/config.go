// Package config reads runtime settings from STUDYTRACKER_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dukerupert/studytracker/internal/chart"
	"github.com/dukerupert/studytracker/internal/export"
)

type Config struct {
	Port          string
	DBPath        string
	LogLevel      string
	LogFormat     string
	Location      *time.Location
	EChartsAssets string
	S3            export.S3Config
	TrustProxy    bool
}

// Load reads the environment once, applying defaults. An unknown time zone
// or a malformed boolean is an error.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:          env("STUDYTRACKER_PORT", "8080"),
		DBPath:        env("STUDYTRACKER_DB_PATH", "studytracker.db"),
		LogLevel:      env("STUDYTRACKER_LOG_LEVEL", "info"),
		LogFormat:     env("STUDYTRACKER_LOG_FORMAT", "text"),
		EChartsAssets: env("STUDYTRACKER_ECHARTS_ASSETS", chart.DefaultAssetsHost),
		S3: export.S3Config{
			Endpoint:  getenv("STUDYTRACKER_S3_ENDPOINT"),
			Bucket:    getenv("STUDYTRACKER_S3_BUCKET"),
			Region:    env("STUDYTRACKER_S3_REGION", "us-east-1"),
			AccessKey: getenv("STUDYTRACKER_S3_ACCESS_KEY"),
			SecretKey: getenv("STUDYTRACKER_S3_SECRET_KEY"),
		},
	}

	cfg.Location = time.Local
	if tz := getenv("STUDYTRACKER_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("load time zone %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	if v := getenv("STUDYTRACKER_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse STUDYTRACKER_TRUST_PROXY %q: %w", v, err)
		}
		cfg.TrustProxy = trust
	}

	return cfg, nil
}
