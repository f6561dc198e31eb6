package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TenantID != "default" {
		t.Errorf("expected default tenant 'default', got %s", cfg.TenantID)
	}
	if cfg.HierarchyType != "ADMIN" {
		t.Errorf("expected default hierarchy type ADMIN, got %s", cfg.HierarchyType)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("expected default cache TTL 1m, got %s", cfg.CacheTTL)
	}
	if cfg.DLQSubject != "fhirsync.bundle.failed" {
		t.Errorf("unexpected DLQ subject %s", cfg.DLQSubject)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("STOCK_SEARCH_URL", "http://stock:8080/stock/v1/_search")
	defer os.Unsetenv("STOCK_SEARCH_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StockSearchURL != "http://stock:8080/stock/v1/_search" {
		t.Errorf("expected STOCK_SEARCH_URL to be set, got %s", cfg.StockSearchURL)
	}
}

func validConfig() *Config {
	return &Config{
		TenantID:                "mz",
		CacheTTL:                time.Minute,
		HTTPTimeout:             30 * time.Second,
		StockSearchURL:          "http://stock:8080/stock/v1/_search",
		StockReconSearchURL:     "http://stock:8080/stock/reconciliation/v1/_search",
		FacilitySearchURL:       "http://facility:8080/facility/v1/_search",
		ProductVariantSearchURL: "http://product:8080/product/variant/v1/_search",
		BoundarySearchURL:       "http://boundary:8080/boundary-service/boundary-relationships/_search",
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfig_Validate_MissingSearchURL(t *testing.T) {
	cfg := validConfig()
	cfg.BoundarySearchURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when BOUNDARY_SEARCH_URL is missing")
	}
}

func TestConfig_Validate_BadURL(t *testing.T) {
	cfg := validConfig()
	cfg.StockCreateURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed STOCK_CREATE_URL")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
