package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// PriceInput is a proposed price as submitted by a client, before parsing.
// Numeric and date fields are kept as text so that every problem can be
// reported back at once.
type PriceInput struct {
	ServiceID           string  `json:"serviceId"           validate:"required,number"`
	ServiceType         string  `json:"serviceType"         validate:"required,oneof=1 2 3"`
	OriginRegionID      string  `json:"originRegionId"      validate:"omitempty,number"`
	DestinationRegionID string  `json:"destinationRegionId" validate:"omitempty,number"`
	WeightStart         string  `json:"weightStart"         validate:"omitempty,numeric"`
	WeightEnd           string  `json:"weightEnd"           validate:"omitempty,numeric"`
	VolumeStart         string  `json:"volumeStart"         validate:"omitempty,numeric"`
	VolumeEnd           string  `json:"volumeEnd"           validate:"omitempty,numeric"`
	Price               string  `json:"price"               validate:"required,numeric"`
	Currency            string  `json:"currency"            validate:"required,max=10"`
	PriceUnit           string  `json:"priceUnit"           validate:"required,max=20"`
	EffectiveDate       string  `json:"effectiveDate"       validate:"required,datetime=2006-01-02"`
	ExpiryDate          string  `json:"expiryDate"          validate:"omitempty,datetime=2006-01-02"`
	IsCurrent           bool    `json:"isCurrent"`
	PriceType           string  `json:"priceType"           validate:"omitempty,oneof=1 2"`
	VisibilityType      string  `json:"visibilityType"      validate:"omitempty,oneof=1 2 3"`
	VisibleOrgs         []int64 `json:"visibleOrgs"`
	OrganizationID      string  `json:"organizationId"      validate:"omitempty,number"`
	Remark              string  `json:"remark"              validate:"max=500"`
}

// ValidationResult is the outcome of validating a PriceInput.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// PriceQuery carries the list filters, sort and paging of a price query.
// Nil fields do not constrain the result.
type PriceQuery struct {
	ServiceID           *int64              `json:"serviceId,omitempty"`
	ServiceType         *domain.ServiceType `json:"serviceType,omitempty"`
	OriginRegionID      *int64              `json:"originRegionId,omitempty"`
	DestinationRegionID *int64              `json:"destinationRegionId,omitempty"`
	WeightStart         *decimal.Decimal    `json:"weightStart,omitempty"`
	WeightEnd           *decimal.Decimal    `json:"weightEnd,omitempty"`
	VolumeStart         *decimal.Decimal    `json:"volumeStart,omitempty"`
	VolumeEnd           *decimal.Decimal    `json:"volumeEnd,omitempty"`
	MinPrice            *decimal.Decimal    `json:"minPrice,omitempty"`
	MaxPrice            *decimal.Decimal    `json:"maxPrice,omitempty"`
	EffectiveFrom       *time.Time          `json:"effectiveFrom,omitempty"`
	EffectiveTo         *time.Time          `json:"effectiveTo,omitempty"`
	ExpiringSoon        bool                `json:"expiringSoon,omitempty"`
	OrganizationID      *int64              `json:"organizationId,omitempty"`
	CreatedBy           string              `json:"createdBy,omitempty"`
	IsCurrent           *bool               `json:"isCurrent,omitempty"`
	SortBy              string              `json:"sortBy,omitempty"`    // price | effectiveDate | updatedAt
	SortOrder           string              `json:"sortOrder,omitempty"` // asc | desc
	Page                int                 `json:"page"`
	PageSize            int                 `json:"pageSize"`
}

// PriceView is a price enriched with display-ready fields.
type PriceView struct {
	domain.PriceRecord
	ValidDays             *int   `json:"validDays"`
	IsExpiringSoon        bool   `json:"isExpiringSoon"`
	WeightRange           string `json:"weightRange"`
	VolumeRange           string `json:"volumeRange"`
	PriceDisplay          string `json:"priceDisplay"`
	ServiceTypeDisplay    string `json:"serviceTypeDisplay"`
	PriceTypeDisplay      string `json:"priceTypeDisplay"`
	VisibilityDisplay     string `json:"visibilityDisplay"`
	OriginRegionName      string `json:"originRegionName,omitempty"`
	DestinationRegionName string `json:"destinationRegionName,omitempty"`
}

// Pagination describes the page returned by a query.
type Pagination struct {
	Current  int   `json:"current"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// PriceQueryResult is a page of enriched prices.
type PriceQueryResult struct {
	Records    []PriceView `json:"records"`
	Pagination Pagination  `json:"pagination"`
}

// ImportOutcome reports what happened to one row of a batch import.
type ImportOutcome struct {
	Row         int      `json:"row"`
	ID          string   `json:"id,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	ConflictIDs []string `json:"conflictIds,omitempty"`
}

// PriceQueryService is the read path used by the HTTP layer.
type PriceQueryService interface {
	Query(ctx context.Context, q PriceQuery, identity *domain.Identity) (*PriceQueryResult, error)
	Invalidate()
}

// PriceService is the write path plus single-price reads.
type PriceService interface {
	Validate(in PriceInput) ValidationResult
	CheckConflict(ctx context.Context, in PriceInput, excludeID string) (*domain.ConflictReport, error)
	Create(ctx context.Context, in PriceInput, identity *domain.Identity) (*domain.PriceRecord, error)
	Update(ctx context.Context, id string, in PriceInput, identity *domain.Identity) (*domain.PriceRecord, error)
	Delete(ctx context.Context, id string, identity *domain.Identity) error
	Get(ctx context.Context, id string, identity *domain.Identity) (*domain.PriceRecord, error)
	Import(ctx context.Context, rows []PriceInput, identity *domain.Identity) ([]ImportOutcome, error)
}
