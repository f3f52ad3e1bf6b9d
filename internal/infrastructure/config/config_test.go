package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != StoreMongo {
		t.Errorf("port/driver = %q/%q", cfg.Port, cfg.StoreDriver)
	}
	if cfg.Pricing.QueryCacheTTL != 5*time.Minute || cfg.Pricing.ScopeLockTTL != 10*time.Second {
		t.Errorf("pricing durations = %+v", cfg.Pricing)
	}
	if cfg.Pricing.HistoryWorkers != 4 || cfg.Pricing.ExportMaxRows != 5000 {
		t.Errorf("pricing sizes = %+v", cfg.Pricing)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":    "postgres",
		"QUERY_CACHE_TTL": "30s",
		"ENV":             "production",
		"REDIS_DB":        "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != StorePostgres || cfg.Pricing.QueryCacheTTL != 30*time.Second || cfg.Redis.DB != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"HISTORY_WORKERS": "many"}))
	if err == nil {
		t.Error("expected an error for a malformed integer")
	}
}
