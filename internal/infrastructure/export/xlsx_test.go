package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

type pagedQueries struct {
	total int
	calls int
}

func (p *pagedQueries) Query(_ context.Context, q ports.PriceQuery, _ *domain.Identity) (*ports.PriceQueryResult, error) {
	p.calls++
	res := &ports.PriceQueryResult{Pagination: ports.Pagination{Current: q.Page, PageSize: q.PageSize, Total: int64(p.total)}}
	for i := (q.Page - 1) * q.PageSize; i < p.total && i < q.Page*q.PageSize; i++ {
		res.Records = append(res.Records, ports.PriceView{
			PriceRecord: domain.PriceRecord{ID: "p", Price: decimal.NewFromInt(int64(i)), EffectiveDate: time.Now()},
		})
	}
	return res, nil
}

func (p *pagedQueries) Invalidate() {}

func TestWritePrices(t *testing.T) {
	exp := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	origin := int64(3)
	days := 12
	rows := []ports.PriceView{{
		PriceRecord: domain.PriceRecord{
			ID:             "abc",
			ServiceID:      1,
			Price:          decimal.RequireFromString("100.5"),
			Currency:       "CNY",
			PriceUnit:      "kg",
			EffectiveDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ExpiryDate:     &exp,
			OriginRegionID: &origin,
			IsCurrent:      true,
			VisibleOrgs:    []int64{1, 12},
		},
		ValidDays:        &days,
		WeightRange:      "0 - 10",
		OriginRegionName: "Shenzhen",
	}}

	b, err := WritePrices(rows)
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer xl.Close()

	got, err := xl.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, header, got[0])
	assert.Equal(t, "abc", got[1][0])
	assert.Equal(t, "Shenzhen", got[1][3])
	assert.Equal(t, "All regions", got[1][4])
	assert.Equal(t, "100.5", got[1][7])
	assert.Equal(t, "2025-12-31", got[1][11])
	assert.Equal(t, "Yes", got[1][13])
	assert.Equal(t, "1,12", got[1][16])
}

func TestExport_PagesUntilTotal(t *testing.T) {
	q := &pagedQueries{total: 250}
	b, err := NewXLSXExporter(q, 0).Export(context.Background(), ports.PriceQuery{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, q.calls)

	xl, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer xl.Close()
	got, _ := xl.GetRows(sheetName)
	assert.Len(t, got, 251)
}

func TestExport_CapsRows(t *testing.T) {
	q := &pagedQueries{total: 1000}
	b, err := NewXLSXExporter(q, 150).Export(context.Background(), ports.PriceQuery{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, q.calls)

	xl, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer xl.Close()
	got, _ := xl.GetRows(sheetName)
	assert.Len(t, got, 151)
}
