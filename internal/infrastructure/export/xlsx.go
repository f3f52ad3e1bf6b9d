// Package export renders price query results as spreadsheets.
package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

const (
	sheetName       = "Prices"
	defaultMaxRows  = 5000
	pageSize        = 100
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

var header = []string{
	"ID", "Service ID", "Service type", "Origin", "Destination",
	"Weight range", "Volume range", "Price", "Currency", "Unit",
	"Effective date", "Expiry date", "Valid days", "Current",
	"Price type", "Visibility", "Visible organizations", "Organization",
	"Created by", "Updated at", "Remark",
}

// XLSXExporter pages through a price query and writes every visible row to
// a workbook.
type XLSXExporter struct {
	queries ports.PriceQueryService
	maxRows int
}

func NewXLSXExporter(queries ports.PriceQueryService, maxRows int) *XLSXExporter {
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	return &XLSXExporter{queries: queries, maxRows: maxRows}
}

// Export runs q for identity and returns the workbook bytes. At most maxRows
// rows are written.
func (e *XLSXExporter) Export(ctx context.Context, q ports.PriceQuery, identity *domain.Identity) ([]byte, error) {
	var rows []ports.PriceView
	q.PageSize = pageSize
	for page := 1; len(rows) < e.maxRows; page++ {
		q.Page = page
		res, err := e.queries.Query(ctx, q, identity)
		if err != nil {
			return nil, err
		}
		rows = append(rows, res.Records...)
		if int64(page*pageSize) >= res.Pagination.Total || len(res.Records) == 0 {
			break
		}
	}
	if len(rows) > e.maxRows {
		rows = rows[:e.maxRows]
	}
	return WritePrices(rows)
}

// WritePrices renders rows into a single-sheet workbook.
func WritePrices(rows []ports.PriceView) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := xl.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, v := range rows {
		record := []any{
			v.ID,
			v.ServiceID,
			v.ServiceTypeDisplay,
			regionLabel(v.OriginRegionName, v.OriginRegionID),
			regionLabel(v.DestinationRegionName, v.DestinationRegionID),
			v.WeightRange,
			v.VolumeRange,
			v.Price.InexactFloat64(),
			v.Currency,
			v.PriceUnit,
			v.EffectiveDate.Format(dateLayout),
			optionalDate(v.PriceRecord),
			optionalInt(v.ValidDays),
			yesNo(v.IsCurrent),
			v.PriceTypeDisplay,
			v.VisibilityDisplay,
			joinIDs(v.VisibleOrgs),
			optionalID(v.OrganizationID),
			v.CreatedBy,
			v.UpdatedAt.UTC().Format(timestampLayout),
			v.Remark,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(sheetName, cell, &record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func regionLabel(name string, id *int64) string {
	switch {
	case id == nil:
		return "All regions"
	case name != "":
		return name
	}
	return strconv.FormatInt(*id, 10)
}

func optionalDate(p domain.PriceRecord) string {
	if p.ExpiryDate == nil {
		return ""
	}
	return p.ExpiryDate.Format(dateLayout)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalID(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
