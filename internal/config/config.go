package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// ServiceURLs holds the remote endpoints for one registry service. Search is
// always required; Create/Update may be empty for read-only deployments.
type ServiceURLs struct {
	Search string
	Create string
	Update string
}

type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"ENV"`
	TenantID      string `mapstructure:"TENANT_ID"`
	HierarchyType string `mapstructure:"HIERARCHY_TYPE"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	NATSURL       string `mapstructure:"NATS_URL"`
	DLQSubject    string `mapstructure:"DLQ_SUBJECT"`
	FailedSubject string `mapstructure:"FAILED_SUBJECT"`

	CacheTTL    time.Duration `mapstructure:"CACHE_TTL"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	FacilitySearchURL string `mapstructure:"FACILITY_SEARCH_URL"`
	FacilityCreateURL string `mapstructure:"FACILITY_CREATE_URL"`
	FacilityUpdateURL string `mapstructure:"FACILITY_UPDATE_URL"`

	ProductVariantSearchURL string `mapstructure:"PRODUCT_VARIANT_SEARCH_URL"`
	ProductVariantCreateURL string `mapstructure:"PRODUCT_VARIANT_CREATE_URL"`
	ProductVariantUpdateURL string `mapstructure:"PRODUCT_VARIANT_UPDATE_URL"`

	StockSearchURL string `mapstructure:"STOCK_SEARCH_URL"`
	StockCreateURL string `mapstructure:"STOCK_CREATE_URL"`
	StockUpdateURL string `mapstructure:"STOCK_UPDATE_URL"`

	StockReconSearchURL string `mapstructure:"STOCK_RECON_SEARCH_URL"`
	StockReconCreateURL string `mapstructure:"STOCK_RECON_CREATE_URL"`
	StockReconUpdateURL string `mapstructure:"STOCK_RECON_UPDATE_URL"`

	BoundarySearchURL string `mapstructure:"BOUNDARY_SEARCH_URL"`
	BoundaryCreateURL string `mapstructure:"BOUNDARY_CREATE_URL"`
	BoundaryUpdateURL string `mapstructure:"BOUNDARY_UPDATE_URL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("TENANT_ID", "default")
	v.SetDefault("HIERARCHY_TYPE", "ADMIN")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("DLQ_SUBJECT", "fhirsync.bundle.failed")
	v.SetDefault("FAILED_SUBJECT", "fhirsync.resource.failed")
	v.SetDefault("CACHE_TTL", "1m")
	v.SetDefault("HTTP_TIMEOUT", "30s")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "TENANT_ID", "HIERARCHY_TYPE",
		"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"NATS_URL", "DLQ_SUBJECT", "FAILED_SUBJECT",
		"CACHE_TTL", "HTTP_TIMEOUT",
		"FACILITY_SEARCH_URL", "FACILITY_CREATE_URL", "FACILITY_UPDATE_URL",
		"PRODUCT_VARIANT_SEARCH_URL", "PRODUCT_VARIANT_CREATE_URL", "PRODUCT_VARIANT_UPDATE_URL",
		"STOCK_SEARCH_URL", "STOCK_CREATE_URL", "STOCK_UPDATE_URL",
		"STOCK_RECON_SEARCH_URL", "STOCK_RECON_CREATE_URL", "STOCK_RECON_UPDATE_URL",
		"BOUNDARY_SEARCH_URL", "BOUNDARY_CREATE_URL", "BOUNDARY_UPDATE_URL",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Stock returns the stock service endpoints.
func (c *Config) Stock() ServiceURLs {
	return ServiceURLs{Search: c.StockSearchURL, Create: c.StockCreateURL, Update: c.StockUpdateURL}
}

// StockReconciliation returns the stock reconciliation service endpoints.
func (c *Config) StockReconciliation() ServiceURLs {
	return ServiceURLs{Search: c.StockReconSearchURL, Create: c.StockReconCreateURL, Update: c.StockReconUpdateURL}
}

// Facility returns the facility service endpoints.
func (c *Config) Facility() ServiceURLs {
	return ServiceURLs{Search: c.FacilitySearchURL, Create: c.FacilityCreateURL, Update: c.FacilityUpdateURL}
}

// ProductVariant returns the product service endpoints.
func (c *Config) ProductVariant() ServiceURLs {
	return ServiceURLs{Search: c.ProductVariantSearchURL, Create: c.ProductVariantCreateURL, Update: c.ProductVariantUpdateURL}
}

// Boundary returns the boundary service endpoints.
func (c *Config) Boundary() ServiceURLs {
	return ServiceURLs{Search: c.BoundarySearchURL, Create: c.BoundaryCreateURL, Update: c.BoundaryUpdateURL}
}

// Validate checks that the configuration is safe to run. Every sync target
// needs at least a search endpoint; create/update endpoints are optional but
// must be well-formed when present.
func (c *Config) Validate() error {
	if c.TenantID == "" {
		return fmt.Errorf("TENANT_ID is required")
	}
	required := map[string]string{
		"STOCK_SEARCH_URL":           c.StockSearchURL,
		"STOCK_RECON_SEARCH_URL":     c.StockReconSearchURL,
		"FACILITY_SEARCH_URL":        c.FacilitySearchURL,
		"PRODUCT_VARIANT_SEARCH_URL": c.ProductVariantSearchURL,
		"BOUNDARY_SEARCH_URL":        c.BoundarySearchURL,
	}
	for name, val := range required {
		if val == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	optional := map[string]string{
		"STOCK_CREATE_URL":           c.StockCreateURL,
		"STOCK_UPDATE_URL":           c.StockUpdateURL,
		"STOCK_RECON_CREATE_URL":     c.StockReconCreateURL,
		"STOCK_RECON_UPDATE_URL":     c.StockReconUpdateURL,
		"FACILITY_CREATE_URL":        c.FacilityCreateURL,
		"FACILITY_UPDATE_URL":        c.FacilityUpdateURL,
		"PRODUCT_VARIANT_CREATE_URL": c.ProductVariantCreateURL,
		"PRODUCT_VARIANT_UPDATE_URL": c.ProductVariantUpdateURL,
		"BOUNDARY_CREATE_URL":        c.BoundaryCreateURL,
		"BOUNDARY_UPDATE_URL":        c.BoundaryUpdateURL,
	}
	for name, val := range required {
		optional[name] = val
	}
	for name, val := range optional {
		if val == "" {
			continue
		}
		if _, err := url.ParseRequestURI(val); err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", name, err)
		}
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
