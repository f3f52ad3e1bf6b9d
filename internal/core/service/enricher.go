package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

const expiringSoonDays = 30

// Enrich derives the display fields of p as of now.
func Enrich(p domain.PriceRecord, now time.Time) ports.PriceView {
	v := ports.PriceView{
		PriceRecord:        p,
		WeightRange:        formatRange(p.WeightStart, p.WeightEnd),
		VolumeRange:        formatRange(p.VolumeStart, p.VolumeEnd),
		PriceDisplay:       fmt.Sprintf("%s %s/%s", p.Price.String(), p.Currency, p.PriceUnit),
		ServiceTypeDisplay: p.ServiceType.Label(),
		PriceTypeDisplay:   p.PriceType.Label(),
		VisibilityDisplay:  p.VisibilityType.Label(),
	}
	if p.ExpiryDate != nil {
		days := int(math.Ceil(p.ExpiryDate.Sub(now).Hours() / 24))
		v.ValidDays = &days
		v.IsExpiringSoon = days <= expiringSoonDays
	}
	return v
}

func formatRange(start, end *decimal.Decimal) string {
	lo, hi := "0", "unbounded"
	if start != nil {
		lo = start.String()
	}
	if end != nil {
		hi = end.String()
	}
	return lo + " - " + hi
}
