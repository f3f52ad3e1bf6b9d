package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

// RangesOverlap reports whether the proposed range [aStart, aEnd] collides
// with the existing range [bStart, bEnd] on one dimension.
//
// A range with both bounds missing is a wildcard and overlaps anything.
// Otherwise the ranges overlap when aStart <= bEnd or aEnd >= bStart; a
// comparison involving a missing bound does not hold.
func RangesOverlap(aStart, aEnd, bStart, bEnd *decimal.Decimal) bool {
	if unbounded(aStart, aEnd) || unbounded(bStart, bEnd) {
		return true
	}
	if aStart != nil && bEnd != nil && aStart.LessThanOrEqual(*bEnd) {
		return true
	}
	if aEnd != nil && bStart != nil && aEnd.GreaterThanOrEqual(*bStart) {
		return true
	}
	return false
}

func unbounded(start, end *decimal.Decimal) bool {
	return start == nil && end == nil
}

// rangeOverlapExpr is the store-side form of RangesOverlap, with the stored
// record as the existing range and [start, end] as the proposed one.
func rangeOverlapExpr(startField, endField filter.Field, start, end *decimal.Decimal) filter.Expr {
	if unbounded(start, end) {
		return filter.True()
	}
	terms := []filter.Expr{filter.AllOf(filter.Null(startField), filter.Null(endField))}
	if start != nil {
		terms = append(terms, filter.Gte(endField, *start))
	}
	if end != nil {
		terms = append(terms, filter.Lte(startField, *end))
	}
	return filter.AnyOf(terms...)
}

// dateWindowExpr selects records whose validity window collides with
// [effective, expiry]: the record starts inside the window, ends inside it,
// or covers it entirely. A nil expiry is open-ended.
func dateWindowExpr(effective time.Time, expiry *time.Time) filter.Expr {
	startsInside := []filter.Expr{filter.Gte(domain.FieldEffectiveDate, effective)}
	endsInside := []filter.Expr{filter.Gte(domain.FieldExpiryDate, effective)}
	covers := []filter.Expr{filter.Lte(domain.FieldEffectiveDate, effective)}

	if expiry != nil {
		startsInside = append(startsInside, filter.Lte(domain.FieldEffectiveDate, *expiry))
		endsInside = append(endsInside, filter.Lte(domain.FieldExpiryDate, *expiry))
		covers = append(covers, filter.AnyOf(filter.Null(domain.FieldExpiryDate), filter.Gte(domain.FieldExpiryDate, *expiry)))
	} else {
		covers = append(covers, filter.Null(domain.FieldExpiryDate))
	}

	return filter.AnyOf(
		filter.AllOf(startsInside...),
		filter.AllOf(endsInside...),
		filter.AllOf(covers...),
	)
}

// scopeExpr matches the conflict scope of p. A nil region matches only
// records that also have no region.
func scopeExpr(p *domain.PriceRecord) filter.Expr {
	return filter.AllOf(
		filter.Equal(domain.FieldServiceID, p.ServiceID),
		filter.Equal(domain.FieldServiceType, int64(p.ServiceType)),
		filter.Equal(domain.FieldIsCurrent, true),
		filter.Equal(domain.FieldOriginRegionID, optional(p.OriginRegionID)),
		filter.Equal(domain.FieldDestinationRegionID, optional(p.DestinationRegionID)),
	)
}

// optional unwraps p so that a nil pointer becomes an untyped nil.
func optional(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
