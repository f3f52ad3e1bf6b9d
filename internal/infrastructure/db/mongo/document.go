package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

type priceDocument struct {
	ID                  primitive.ObjectID    `bson:"_id,omitempty"`
	ServiceID           int64                 `bson:"service_id"`
	ServiceType         int64                 `bson:"service_type"`
	OriginRegionID      *int64                `bson:"origin_region_id"`
	DestinationRegionID *int64                `bson:"destination_region_id"`
	WeightStart         *primitive.Decimal128 `bson:"weight_start"`
	WeightEnd           *primitive.Decimal128 `bson:"weight_end"`
	VolumeStart         *primitive.Decimal128 `bson:"volume_start"`
	VolumeEnd           *primitive.Decimal128 `bson:"volume_end"`
	Price               primitive.Decimal128  `bson:"price"`
	Currency            string                `bson:"currency"`
	PriceUnit           string                `bson:"price_unit"`
	EffectiveDate       time.Time             `bson:"effective_date"`
	ExpiryDate          *time.Time            `bson:"expiry_date"`
	IsCurrent           bool                  `bson:"is_current"`
	PriceType           int64                 `bson:"price_type"`
	VisibilityType      int64                 `bson:"visibility_type"`
	VisibleOrgs         []int64               `bson:"visible_orgs"`
	OrganizationID      *int64                `bson:"organization_id"`
	CreatedBy           string                `bson:"created_by"`
	CreatedAt           time.Time             `bson:"created_at"`
	UpdatedAt           time.Time             `bson:"updated_at"`
	Remark              string                `bson:"remark,omitempty"`
}

type historyDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	PriceID       string             `bson:"price_id"`
	Snapshot      priceDocument      `bson:"snapshot"`
	OperationType string             `bson:"operation_type"`
	OperatedBy    string             `bson:"operated_by"`
	OperatedAt    time.Time          `bson:"operated_at"`
}

type regionDocument struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

// toDocument fails with a *domain.ValidationError when a decimal does not
// fit Decimal128, listing every such field.
func toDocument(p *domain.PriceRecord) (priceDocument, error) {
	var conv decimalConverter
	d := priceDocument{
		ServiceID:           p.ServiceID,
		ServiceType:         int64(p.ServiceType),
		OriginRegionID:      p.OriginRegionID,
		DestinationRegionID: p.DestinationRegionID,
		WeightStart:         conv.optional("weightStart", p.WeightStart),
		WeightEnd:           conv.optional("weightEnd", p.WeightEnd),
		VolumeStart:         conv.optional("volumeStart", p.VolumeStart),
		VolumeEnd:           conv.optional("volumeEnd", p.VolumeEnd),
		Price:               conv.required("price", p.Price),
		Currency:            p.Currency,
		PriceUnit:           p.PriceUnit,
		EffectiveDate:       p.EffectiveDate,
		ExpiryDate:          p.ExpiryDate,
		IsCurrent:           p.IsCurrent,
		PriceType:           int64(p.PriceType),
		VisibilityType:      int64(p.VisibilityType),
		VisibleOrgs:         p.VisibleOrgs,
		OrganizationID:      p.OrganizationID,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Remark:              p.Remark,
	}
	if len(conv.errs) > 0 {
		return priceDocument{}, &domain.ValidationError{Errors: conv.errs}
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		d.ID = oid
	}
	return d, nil
}

func (d priceDocument) toDomain() *domain.PriceRecord {
	p := &domain.PriceRecord{
		ServiceID:           d.ServiceID,
		ServiceType:         domain.ServiceType(d.ServiceType),
		OriginRegionID:      d.OriginRegionID,
		DestinationRegionID: d.DestinationRegionID,
		WeightStart:         fromOptionalDecimal128(d.WeightStart),
		WeightEnd:           fromOptionalDecimal128(d.WeightEnd),
		VolumeStart:         fromOptionalDecimal128(d.VolumeStart),
		VolumeEnd:           fromOptionalDecimal128(d.VolumeEnd),
		Price:               fromDecimal128(d.Price),
		Currency:            d.Currency,
		PriceUnit:           d.PriceUnit,
		EffectiveDate:       d.EffectiveDate.UTC(),
		IsCurrent:           d.IsCurrent,
		PriceType:           domain.PriceType(d.PriceType),
		VisibilityType:      domain.VisibilityType(d.VisibilityType),
		VisibleOrgs:         d.VisibleOrgs,
		OrganizationID:      d.OrganizationID,
		CreatedBy:           d.CreatedBy,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
		Remark:              d.Remark,
	}
	if !d.ID.IsZero() {
		p.ID = d.ID.Hex()
	}
	if d.ExpiryDate != nil {
		exp := d.ExpiryDate.UTC()
		p.ExpiryDate = &exp
	}
	return p
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

// decimalConverter collects the fields that could not be converted.
type decimalConverter struct {
	errs []string
}

func (c *decimalConverter) required(field string, d decimal.Decimal) primitive.Decimal128 {
	v, err := toDecimal128(d)
	if err != nil {
		c.errs = append(c.errs, fmt.Sprintf("%s %s cannot be stored as a 128-bit decimal", field, d.String()))
	}
	return v
}

func (c *decimalConverter) optional(field string, d *decimal.Decimal) *primitive.Decimal128 {
	if d == nil {
		return nil
	}
	v := c.required(field, *d)
	return &v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fromOptionalDecimal128(v *primitive.Decimal128) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := fromDecimal128(*v)
	return &d
}
