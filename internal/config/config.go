// Package config loads the dispatch rule set from hall.yaml plus
// environment overrides. Every time-window and threshold the engine
// applies is configured here, never hardcoded in rule logic.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// BookGroupConfig names a processing group and the local time its referral
// cycle starts.
type BookGroupConfig struct {
	Name  string `mapstructure:"name"`
	Start string `mapstructure:"start"`
}

// Config holds the full rule set for one organization.
type Config struct {
	DBPath string `mapstructure:"db_path"`

	// Bidding window (evening open, next-morning close).
	BidOpen  string `mapstructure:"bid_open"`
	BidClose string `mapstructure:"bid_close"`

	// Same-day cutoff; requests at or after it go to the next cycle.
	Cutoff string `mapstructure:"cutoff"`

	// Referral cycle processing order.
	ProcessingOrder []BookGroupConfig `mapstructure:"processing_order"`

	// Re-sign interval: an active registration must re-sign within this
	// many days to keep its place exposure current.
	ReSignDays int `mapstructure:"re_sign_days"`

	// Penalty thresholds.
	CheckMarkLimit     int           `mapstructure:"check_mark_limit"`
	BidRejectionLimit  int           `mapstructure:"bid_rejection_limit"`
	BidRejectionWindow time.Duration `mapstructure:"bid_rejection_window"`
	BidSuspension      time.Duration `mapstructure:"bid_suspension"`
	SeparationBlackout time.Duration `mapstructure:"separation_blackout"`

	// Short-call threshold in days, counted inclusive of the start date.
	ShortCallDays int `mapstructure:"short_call_days"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetDefault("bid_open", "17:30")
	viper.SetDefault("bid_close", "07:00")
	viper.SetDefault("cutoff", "15:00")
	viper.SetDefault("re_sign_days", 30)
	viper.SetDefault("check_mark_limit", 3)
	viper.SetDefault("bid_rejection_limit", 2)
	viper.SetDefault("bid_rejection_window", "8760h") // rolling 12 months
	viper.SetDefault("bid_suspension", "8760h")       // 1 year
	viper.SetDefault("separation_blackout", "336h")   // 2 weeks
	viper.SetDefault("short_call_days", 10)
	viper.SetDefault("metrics_addr", ":9090")
	viper.SetDefault("processing_order", []map[string]any{
		{"name": "primary", "start": "08:30"},
		{"name": "secondary", "start": "09:15"},
		{"name": "miscellaneous", "start": "10:00"},
	})

	viper.SetConfigName("hall")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.hall")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("hall")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: defaults and env vars apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
