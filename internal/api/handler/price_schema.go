package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/ports"
)

// flexString accepts a JSON string, number or null and keeps its text.
// Spreadsheet-driven clients send numeric cells either way. Numbers are
// rewritten in plain decimal form, so 1.5e2 arrives as "150".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(d.String())
	}
	return nil
}

// orgList accepts visible organizations as a JSON array of ids or as a
// comma-joined string ("3,5,8").
type orgList []int64

func (o *orgList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	var parts []flexString
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
	} else {
		var joined flexString
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		for _, p := range strings.Split(string(joined), ",") {
			parts = append(parts, flexString(strings.TrimSpace(p)))
		}
	}

	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(string(p), 10, 64)
		if err != nil {
			return fmt.Errorf("visibleOrgs: %q is not an organization id", p)
		}
		ids = append(ids, id)
	}
	*o = ids
	return nil
}

// --- Request / Response types ---

type priceRequest struct {
	ServiceID           flexString `json:"serviceId"`
	ServiceType         flexString `json:"serviceType"`
	OriginRegionID      flexString `json:"originRegionId"`
	DestinationRegionID flexString `json:"destinationRegionId"`
	WeightStart         flexString `json:"weightStart"`
	WeightEnd           flexString `json:"weightEnd"`
	VolumeStart         flexString `json:"volumeStart"`
	VolumeEnd           flexString `json:"volumeEnd"`
	Price               flexString `json:"price"`
	Currency            flexString `json:"currency"`
	PriceUnit           flexString `json:"priceUnit"`
	EffectiveDate       flexString `json:"effectiveDate"`
	ExpiryDate          flexString `json:"expiryDate"`
	IsCurrent           *bool      `json:"isCurrent"`
	PriceType           flexString `json:"priceType"`
	VisibilityType      flexString `json:"visibilityType"`
	VisibleOrgs         orgList    `json:"visibleOrgs"`
	OrganizationID      flexString `json:"organizationId"`
	Remark              flexString `json:"remark"`
}

type checkConflictRequest struct {
	priceRequest
	ExcludeID string `json:"excludeId"`
}

type importRequest struct {
	Rows []priceRequest `json:"rows" validate:"required,min=1,max=1000"`
}

type importResponse struct {
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Outcomes  []ports.ImportOutcome `json:"outcomes"`
}

// listPricesRequest carries the query string of GET /v1/prices and
// GET /v1/prices/export.
type listPricesRequest struct {
	ServiceID           string `query:"serviceId"           json:"serviceId"           validate:"omitempty,number"`
	ServiceType         string `query:"serviceType"         json:"serviceType"         validate:"omitempty,oneof=1 2 3"`
	OriginRegionID      string `query:"originRegionId"      json:"originRegionId"      validate:"omitempty,number"`
	DestinationRegionID string `query:"destinationRegionId" json:"destinationRegionId" validate:"omitempty,number"`
	WeightStart         string `query:"weightStart"         json:"weightStart"         validate:"omitempty,numeric"`
	WeightEnd           string `query:"weightEnd"           json:"weightEnd"           validate:"omitempty,numeric"`
	VolumeStart         string `query:"volumeStart"         json:"volumeStart"         validate:"omitempty,numeric"`
	VolumeEnd           string `query:"volumeEnd"           json:"volumeEnd"           validate:"omitempty,numeric"`
	MinPrice            string `query:"minPrice"            json:"minPrice"            validate:"omitempty,numeric"`
	MaxPrice            string `query:"maxPrice"            json:"maxPrice"            validate:"omitempty,numeric"`
	EffectiveFrom       string `query:"effectiveFrom"       json:"effectiveFrom"       validate:"omitempty,datetime=2006-01-02"`
	EffectiveTo         string `query:"effectiveTo"         json:"effectiveTo"         validate:"omitempty,datetime=2006-01-02"`
	ExpiringSoon        string `query:"expiringSoon"        json:"expiringSoon"        validate:"omitempty,boolean"`
	OrganizationID      string `query:"organizationId"      json:"organizationId"      validate:"omitempty,number"`
	CreatedBy           string `query:"createdBy"           json:"createdBy"           validate:"max=100"`
	IsCurrent           string `query:"isCurrent"           json:"isCurrent"           validate:"omitempty,boolean"`
	SortBy              string `query:"sortBy"              json:"sortBy"              validate:"omitempty,oneof=price effectiveDate updatedAt"`
	SortOrder           string `query:"sortOrder"           json:"sortOrder"           validate:"omitempty,oneof=asc desc ASC DESC"`
	Page                int    `query:"page"                json:"page"                validate:"gte=0"`
	PageSize            int    `query:"pageSize"            json:"pageSize"            validate:"gte=0"`
}
