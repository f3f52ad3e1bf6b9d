package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/filter"
)

// ServiceType classifies the logistics product a price belongs to.
type ServiceType int

const (
	ServiceTraditional ServiceType = 1
	ServiceFBAFirstLeg ServiceType = 2
	ServiceValueAdded  ServiceType = 3
)

// PriceType controls who may see a price at all.
type PriceType int

const (
	PriceExternal PriceType = 1
	PriceInternal PriceType = 2
)

// VisibilityType controls which organizations may see a price.
type VisibilityType int

const (
	VisibleToAll       VisibilityType = 1
	VisibleToListed    VisibilityType = 2
	VisibleToOwnerOnly VisibilityType = 3
)

var serviceTypeLabels = map[ServiceType]string{
	ServiceTraditional: "Traditional logistics",
	ServiceFBAFirstLeg: "FBA first leg",
	ServiceValueAdded:  "Value-added service",
}

var priceTypeLabels = map[PriceType]string{
	PriceExternal: "External price",
	PriceInternal: "Internal price",
}

var visibilityLabels = map[VisibilityType]string{
	VisibleToAll:       "All organizations",
	VisibleToListed:    "Selected organizations",
	VisibleToOwnerOnly: "Owning organization only",
}

func (s ServiceType) Valid() bool {
	_, ok := serviceTypeLabels[s]
	return ok
}

func (s ServiceType) Label() string {
	if l, ok := serviceTypeLabels[s]; ok {
		return l
	}
	return "Unknown"
}

func (p PriceType) Valid() bool {
	_, ok := priceTypeLabels[p]
	return ok
}

func (p PriceType) Label() string {
	if l, ok := priceTypeLabels[p]; ok {
		return l
	}
	return "Unknown"
}

func (v VisibilityType) Valid() bool {
	_, ok := visibilityLabels[v]
	return ok
}

func (v VisibilityType) Label() string {
	if l, ok := visibilityLabels[v]; ok {
		return l
	}
	return "Unknown"
}

// Filterable price fields. Values are the store column / document key names.
const (
	FieldID                  filter.Field = "id"
	FieldServiceID           filter.Field = "service_id"
	FieldServiceType         filter.Field = "service_type"
	FieldOriginRegionID      filter.Field = "origin_region_id"
	FieldDestinationRegionID filter.Field = "destination_region_id"
	FieldWeightStart         filter.Field = "weight_start"
	FieldWeightEnd           filter.Field = "weight_end"
	FieldVolumeStart         filter.Field = "volume_start"
	FieldVolumeEnd           filter.Field = "volume_end"
	FieldPrice               filter.Field = "price"
	FieldCurrency            filter.Field = "currency"
	FieldEffectiveDate       filter.Field = "effective_date"
	FieldExpiryDate          filter.Field = "expiry_date"
	FieldIsCurrent           filter.Field = "is_current"
	FieldPriceType           filter.Field = "price_type"
	FieldVisibilityType      filter.Field = "visibility_type"
	FieldVisibleOrgs         filter.Field = "visible_orgs"
	FieldOrganizationID      filter.Field = "organization_id"
	FieldCreatedBy           filter.Field = "created_by"
	FieldUpdatedAt           filter.Field = "updated_at"
)

// PriceRecord is a time-versioned price for one service/route/weight/volume band.
type PriceRecord struct {
	ID                  string           `json:"id"`
	ServiceID           int64            `json:"serviceId"`
	ServiceType         ServiceType      `json:"serviceType"`
	OriginRegionID      *int64           `json:"originRegionId"`
	DestinationRegionID *int64           `json:"destinationRegionId"`
	WeightStart         *decimal.Decimal `json:"weightStart"`
	WeightEnd           *decimal.Decimal `json:"weightEnd"`
	VolumeStart         *decimal.Decimal `json:"volumeStart"`
	VolumeEnd           *decimal.Decimal `json:"volumeEnd"`
	Price               decimal.Decimal  `json:"price"`
	Currency            string           `json:"currency"`
	PriceUnit           string           `json:"priceUnit"`
	EffectiveDate       time.Time        `json:"effectiveDate"`
	ExpiryDate          *time.Time       `json:"expiryDate"`
	IsCurrent           bool             `json:"isCurrent"`
	PriceType           PriceType        `json:"priceType"`
	VisibilityType      VisibilityType   `json:"visibilityType"`
	VisibleOrgs         []int64          `json:"visibleOrgs"`
	OrganizationID      *int64           `json:"organizationId"`
	CreatedBy           string           `json:"createdBy"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
	Remark              string           `json:"remark,omitempty"`
}

// ScopeKey identifies the conflict scope: two current prices with the same
// key must not overlap.
func (p *PriceRecord) ScopeKey() string {
	return fmt.Sprintf("%d:%d:%s:%s", p.ServiceID, p.ServiceType, optionalID(p.OriginRegionID), optionalID(p.DestinationRegionID))
}

// FilterValue implements filter.Record.
func (p *PriceRecord) FilterValue(f filter.Field) (any, bool) {
	switch f {
	case FieldID:
		return p.ID, p.ID != ""
	case FieldServiceID:
		return p.ServiceID, true
	case FieldServiceType:
		return int64(p.ServiceType), true
	case FieldOriginRegionID:
		return derefInt(p.OriginRegionID)
	case FieldDestinationRegionID:
		return derefInt(p.DestinationRegionID)
	case FieldWeightStart:
		return derefDecimal(p.WeightStart)
	case FieldWeightEnd:
		return derefDecimal(p.WeightEnd)
	case FieldVolumeStart:
		return derefDecimal(p.VolumeStart)
	case FieldVolumeEnd:
		return derefDecimal(p.VolumeEnd)
	case FieldPrice:
		return p.Price, true
	case FieldCurrency:
		return p.Currency, true
	case FieldEffectiveDate:
		return p.EffectiveDate, true
	case FieldExpiryDate:
		if p.ExpiryDate == nil {
			return nil, false
		}
		return *p.ExpiryDate, true
	case FieldIsCurrent:
		return p.IsCurrent, true
	case FieldPriceType:
		return int64(p.PriceType), true
	case FieldVisibilityType:
		return int64(p.VisibilityType), true
	case FieldVisibleOrgs:
		return p.VisibleOrgs, p.VisibleOrgs != nil
	case FieldOrganizationID:
		return derefInt(p.OrganizationID)
	case FieldCreatedBy:
		return p.CreatedBy, p.CreatedBy != ""
	case FieldUpdatedAt:
		return p.UpdatedAt, !p.UpdatedAt.IsZero()
	}
	return nil, false
}

func derefInt(v *int64) (any, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func derefDecimal(v *decimal.Decimal) (any, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func optionalID(v *int64) string {
	if v == nil {
		return "*"
	}
	return fmt.Sprintf("%d", *v)
}
