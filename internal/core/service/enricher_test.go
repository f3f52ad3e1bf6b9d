package service

import (
	"testing"
	"time"
)

func TestEnrich(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	p := *current(dec("5"), dec("15"))
	p.ExpiryDate = dayPtr("2025-01-10")
	p.Price = *dec("100.50")

	v := Enrich(p, now)
	if v.ValidDays == nil || *v.ValidDays != 9 {
		t.Fatalf("validDays = %v, want 9", v.ValidDays)
	}
	if !v.IsExpiringSoon {
		t.Error("expected expiring soon")
	}
	if v.WeightRange != "5 - 15" {
		t.Errorf("weightRange = %q", v.WeightRange)
	}
	if v.VolumeRange != "0 - unbounded" {
		t.Errorf("volumeRange = %q", v.VolumeRange)
	}
	if v.PriceDisplay != "100.5 CNY/kg" {
		t.Errorf("priceDisplay = %q", v.PriceDisplay)
	}
	if v.ServiceTypeDisplay != "Traditional logistics" || v.PriceTypeDisplay != "External price" || v.VisibilityDisplay != "All organizations" {
		t.Errorf("labels = %q / %q / %q", v.ServiceTypeDisplay, v.PriceTypeDisplay, v.VisibilityDisplay)
	}
	if v.ID != p.ID || !v.Price.Equal(p.Price) {
		t.Error("record fields must be carried over")
	}
}

func TestEnrich_ExpiryThresholds(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		expiry   string
		days     int
		expiring bool
	}{
		{"2025-01-31", 30, true},
		{"2025-02-01", 31, false},
		{"2024-12-31", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			p := *current(nil, nil)
			p.ExpiryDate = dayPtr(tt.expiry)
			v := Enrich(p, now)
			if *v.ValidDays != tt.days || v.IsExpiringSoon != tt.expiring {
				t.Errorf("got %d/%v, want %d/%v", *v.ValidDays, v.IsExpiringSoon, tt.days, tt.expiring)
			}
		})
	}
}

func TestEnrich_OpenEnded(t *testing.T) {
	p := *current(nil, nil)
	p.ExpiryDate = nil
	p.PriceType = 7

	v := Enrich(p, time.Now())
	if v.ValidDays != nil || v.IsExpiringSoon {
		t.Error("open-ended prices have no validDays and never expire soon")
	}
	if v.WeightRange != "0 - unbounded" {
		t.Errorf("weightRange = %q", v.WeightRange)
	}
	if v.PriceTypeDisplay != "Unknown" {
		t.Errorf("priceTypeDisplay = %q", v.PriceTypeDisplay)
	}
}
