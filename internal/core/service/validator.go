package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
	"github.com/99minutos/freight-pricing/internal/pkg/validation"
)

const dateLayout = "2006-01-02"

// PriceValidator checks proposed prices field by field. It never touches the
// store and never fails: every problem is reported in the result.
type PriceValidator struct {
	v *validator.Validate
}

func NewPriceValidator() *PriceValidator {
	v := validation.New()
	v.RegisterStructValidation(priceInputRules, ports.PriceInput{})
	return &PriceValidator{v: v}
}

// Validate returns all problems found in in.
func (pv *PriceValidator) Validate(in ports.PriceInput) ports.ValidationResult {
	msgs := validation.Messages(pv.v.Struct(in))
	return ports.ValidationResult{IsValid: len(msgs) == 0, Errors: msgs}
}

// priceInputRules holds the cross-field checks. Orderings are only compared
// when both sides parse; malformed values are reported by the field tags.
func priceInputRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(ports.PriceInput)

	checkOrder(sl, in.WeightStart, in.WeightEnd, "weightStart", "WeightStart", "weightEnd")
	checkOrder(sl, in.VolumeStart, in.VolumeEnd, "volumeStart", "VolumeStart", "volumeEnd")

	if p, err := decimal.NewFromString(strings.TrimSpace(in.Price)); err == nil && p.IsNegative() {
		sl.ReportError(in.Price, "price", "Price", "nonnegative", "")
	}

	if in.EffectiveDate != "" && in.ExpiryDate != "" {
		eff, err1 := time.Parse(dateLayout, in.EffectiveDate)
		exp, err2 := time.Parse(dateLayout, in.ExpiryDate)
		if err1 == nil && err2 == nil && eff.After(exp) {
			sl.ReportError(in.EffectiveDate, "effectiveDate", "EffectiveDate", validation.TagRangeOrder, "expiryDate")
		}
	}
}

func checkOrder(sl validator.StructLevel, start, end, field, structField, endField string) {
	if start == "" || end == "" {
		return
	}
	s, err1 := decimal.NewFromString(start)
	e, err2 := decimal.NewFromString(end)
	if err1 != nil || err2 != nil {
		return
	}
	if s.GreaterThan(e) {
		sl.ReportError(start, field, structField, validation.TagRangeOrder, endField)
	}
}

// parsePriceInput converts a validated input into a PriceRecord.
func parsePriceInput(in ports.PriceInput) (*domain.PriceRecord, error) {
	serviceID, err := strconv.ParseInt(strings.TrimSpace(in.ServiceID), 10, 64)
	if err != nil {
		return nil, err
	}
	serviceType, err := strconv.Atoi(strings.TrimSpace(in.ServiceType))
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return nil, err
	}
	effective, err := time.Parse(dateLayout, in.EffectiveDate)
	if err != nil {
		return nil, err
	}

	rec := &domain.PriceRecord{
		ServiceID:      serviceID,
		ServiceType:    domain.ServiceType(serviceType),
		Price:          price,
		Currency:       strings.ToUpper(strings.TrimSpace(in.Currency)),
		PriceUnit:      strings.TrimSpace(in.PriceUnit),
		EffectiveDate:  effective.UTC(),
		IsCurrent:      in.IsCurrent,
		PriceType:      domain.PriceExternal,
		VisibilityType: domain.VisibleToAll,
		Remark:         strings.TrimSpace(in.Remark),
	}

	if in.ExpiryDate != "" {
		exp, err := time.Parse(dateLayout, in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		exp = exp.UTC()
		rec.ExpiryDate = &exp
	}
	if rec.OriginRegionID, err = optionalInt(in.OriginRegionID); err != nil {
		return nil, err
	}
	if rec.DestinationRegionID, err = optionalInt(in.DestinationRegionID); err != nil {
		return nil, err
	}
	if rec.OrganizationID, err = optionalInt(in.OrganizationID); err != nil {
		return nil, err
	}
	for _, b := range []struct {
		raw string
		dst **decimal.Decimal
	}{
		{in.WeightStart, &rec.WeightStart},
		{in.WeightEnd, &rec.WeightEnd},
		{in.VolumeStart, &rec.VolumeStart},
		{in.VolumeEnd, &rec.VolumeEnd},
	} {
		if *b.dst, err = optionalDecimal(b.raw); err != nil {
			return nil, err
		}
	}
	if in.PriceType != "" {
		n, err := strconv.Atoi(in.PriceType)
		if err != nil {
			return nil, err
		}
		rec.PriceType = domain.PriceType(n)
	}
	if in.VisibilityType != "" {
		n, err := strconv.Atoi(in.VisibilityType)
		if err != nil {
			return nil, err
		}
		rec.VisibilityType = domain.VisibilityType(n)
	}
	if rec.VisibilityType == domain.VisibleToListed {
		rec.VisibleOrgs = uniqueIDs(in.VisibleOrgs)
	}
	return rec, nil
}

func optionalInt(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalDecimal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
