package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

func TestRender(t *testing.T) {
	when := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	tests := []struct {
		name     string
		expr     filter.Expr
		wantSQL  string
		wantArgs []any
	}{
		{"true", filter.True(), "TRUE", nil},
		{"false", filter.False(), "FALSE", nil},
		{"eq", filter.Equal(domain.FieldServiceID, int64(1)), "service_id = ?", []any{int64(1)}},
		{"null", filter.Equal(domain.FieldOriginRegionID, nil), "origin_region_id IS NULL", nil},
		{"cmp", filter.Lte(domain.FieldEffectiveDate, when), "effective_date <= ?", []any{when}},
		{"membership", filter.Has(domain.FieldVisibleOrgs, int64(12)), "? = ANY(visible_orgs)", []any{int64(12)}},
		{"id exclusion", filter.NotEqual(domain.FieldID, id.String()), "(id <> ? OR id IS NULL)", []any{id}},
		{"malformed id", filter.Equal(domain.FieldID, "42"), "FALSE", nil},
		{
			"nested",
			filter.AllOf(
				filter.Equal(domain.FieldIsCurrent, true),
				filter.AnyOf(
					filter.AllOf(filter.Null(domain.FieldWeightStart), filter.Null(domain.FieldWeightEnd)),
					filter.Gte(domain.FieldWeightEnd, decimal.NewFromInt(5)),
				),
			),
			"(is_current = ? AND ((weight_start IS NULL AND weight_end IS NULL) OR weight_end >= ?))",
			[]any{true, decimal.NewFromInt(5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := Render(tt.expr)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	p := &domain.PriceRecord{
		ID:             uuid.NewString(),
		ServiceID:      9,
		ServiceType:    domain.ServiceValueAdded,
		Price:          decimal.RequireFromString("12.5"),
		EffectiveDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		VisibilityType: domain.VisibleToListed,
		VisibleOrgs:    []int64{3, 5},
	}
	got := toModel(p).toDomain()
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.VisibleOrgs, got.VisibleOrgs)
	assert.True(t, got.Price.Equal(p.Price))
	assert.Nil(t, got.ExpiryDate)
	assert.Nil(t, got.OriginRegionID)
}
