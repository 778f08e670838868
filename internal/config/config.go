package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the property dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// PropertyData API configuration
	PropertyDataBaseURL string        `env:"PROPERTYDATA_BASE_URL,default=https://api.propertydata.co.uk"`
	PropertyDataAPIKey  string        `env:"PROPERTYDATA_API_KEY"`
	FetchTimeout        time.Duration `env:"FETCH_TIMEOUT,default=0s"`

	// Each dataset keeps its own query area
	PlanningPostcode    string `env:"PLANNING_POSTCODE,default=NW6 7YD"`
	SchoolsPostcode     string `env:"SCHOOLS_POSTCODE,default=W21TR"`
	CrimePostcode       string `env:"CRIME_POSTCODE,default=W14 9JH"`
	RestaurantsPostcode string `env:"RESTAURANTS_POSTCODE,default=OX73EX"`

	// Planning filters
	PlanningDecisionRating string `env:"PLANNING_DECISION_RATING,default=positive"`
	PlanningCategory       string `env:"PLANNING_CATEGORY,default=EXTENSION,LOFT CONVERSION"`
	PlanningMaxAgeUpdate   int    `env:"PLANNING_MAX_AGE_UPDATE,default=120"`
	PlanningResults        int    `env:"PLANNING_RESULTS,default=20"`
	PlanningSynthesize     bool   `env:"PLANNING_SYNTHESIZE_EMPTY,default=true"`

	// Refresh behaviour
	RefreshInterval   time.Duration `env:"REFRESH_INTERVAL,default=5m"`
	RefreshOnPageLoad bool          `env:"REFRESH_ON_PAGE_LOAD,default=true"`

	// Local testing configuration
	MockupMode bool `env:"MOCKUP_MODE,default=false"`

	// Page configuration
	AssetsHost     string `env:"ASSETS_HOST,default=https://go-echarts.github.io/go-echarts-assets/assets/"`
	DashboardNotes string `env:"DASHBOARD_NOTES"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative, got %s", c.FetchTimeout)
	}
	if !c.MockupMode && c.PropertyDataBaseURL == "" {
		return fmt.Errorf("PROPERTYDATA_BASE_URL is required unless MOCKUP_MODE is set")
	}
	return nil
}
