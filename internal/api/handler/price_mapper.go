package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

const dateLayout = "2006-01-02"

// toPriceInput maps the transport payload to the service input. A payload
// that omits isCurrent describes a current price.
func toPriceInput(req priceRequest) ports.PriceInput {
	isCurrent := true
	if req.IsCurrent != nil {
		isCurrent = *req.IsCurrent
	}
	return ports.PriceInput{
		ServiceID:           string(req.ServiceID),
		ServiceType:         string(req.ServiceType),
		OriginRegionID:      string(req.OriginRegionID),
		DestinationRegionID: string(req.DestinationRegionID),
		WeightStart:         string(req.WeightStart),
		WeightEnd:           string(req.WeightEnd),
		VolumeStart:         string(req.VolumeStart),
		VolumeEnd:           string(req.VolumeEnd),
		Price:               string(req.Price),
		Currency:            string(req.Currency),
		PriceUnit:           string(req.PriceUnit),
		EffectiveDate:       string(req.EffectiveDate),
		ExpiryDate:          string(req.ExpiryDate),
		IsCurrent:           isCurrent,
		PriceType:           string(req.PriceType),
		VisibilityType:      string(req.VisibilityType),
		VisibleOrgs:         []int64(req.VisibleOrgs),
		OrganizationID:      string(req.OrganizationID),
		Remark:              string(req.Remark),
	}
}

func toPriceInputs(rows []priceRequest) []ports.PriceInput {
	out := make([]ports.PriceInput, 0, len(rows))
	for _, r := range rows {
		out = append(out, toPriceInput(r))
	}
	return out
}

// toPriceQuery parses a validated query string.
func toPriceQuery(req listPricesRequest) (ports.PriceQuery, error) {
	q := ports.PriceQuery{
		CreatedBy: strings.TrimSpace(req.CreatedBy),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	var err error
	if q.ServiceID, err = parseID("serviceId", req.ServiceID); err != nil {
		return q, err
	}
	if q.OriginRegionID, err = parseID("originRegionId", req.OriginRegionID); err != nil {
		return q, err
	}
	if q.DestinationRegionID, err = parseID("destinationRegionId", req.DestinationRegionID); err != nil {
		return q, err
	}
	if q.OrganizationID, err = parseID("organizationId", req.OrganizationID); err != nil {
		return q, err
	}
	if req.ServiceType != "" {
		n, err := strconv.Atoi(req.ServiceType)
		if err != nil {
			return q, fmt.Errorf("serviceType: %w", err)
		}
		st := domain.ServiceType(n)
		q.ServiceType = &st
	}

	for _, d := range []struct {
		name string
		raw  string
		dst  **decimal.Decimal
	}{
		{"weightStart", req.WeightStart, &q.WeightStart},
		{"weightEnd", req.WeightEnd, &q.WeightEnd},
		{"volumeStart", req.VolumeStart, &q.VolumeStart},
		{"volumeEnd", req.VolumeEnd, &q.VolumeEnd},
		{"minPrice", req.MinPrice, &q.MinPrice},
		{"maxPrice", req.MaxPrice, &q.MaxPrice},
	} {
		if *d.dst, err = parseDecimal(d.name, d.raw); err != nil {
			return q, err
		}
	}

	if q.EffectiveFrom, err = parseDate("effectiveFrom", req.EffectiveFrom); err != nil {
		return q, err
	}
	if q.EffectiveTo, err = parseDate("effectiveTo", req.EffectiveTo); err != nil {
		return q, err
	}

	if req.ExpiringSoon != "" {
		if q.ExpiringSoon, err = strconv.ParseBool(req.ExpiringSoon); err != nil {
			return q, fmt.Errorf("expiringSoon: %w", err)
		}
	}
	if req.IsCurrent != "" {
		b, err := strconv.ParseBool(req.IsCurrent)
		if err != nil {
			return q, fmt.Errorf("isCurrent: %w", err)
		}
		q.IsCurrent = &b
	}
	return q, nil
}

func parseID(name, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &n, nil
}

func parseDecimal(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &d, nil
}

func parseDate(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}
