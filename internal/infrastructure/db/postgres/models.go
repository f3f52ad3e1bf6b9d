package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

type priceModel struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ServiceID           int64            `gorm:"not null;index:idx_prices_scope"`
	ServiceType         int64            `gorm:"not null;index:idx_prices_scope"`
	OriginRegionID      *int64           `gorm:"index:idx_prices_scope"`
	DestinationRegionID *int64           `gorm:"index:idx_prices_scope"`
	WeightStart         *decimal.Decimal `gorm:"type:numeric(18,4)"`
	WeightEnd           *decimal.Decimal `gorm:"type:numeric(18,4)"`
	VolumeStart         *decimal.Decimal `gorm:"type:numeric(18,4)"`
	VolumeEnd           *decimal.Decimal `gorm:"type:numeric(18,4)"`
	Price               decimal.Decimal  `gorm:"type:numeric(18,4);not null"`
	Currency            string           `gorm:"type:varchar(10);not null"`
	PriceUnit           string           `gorm:"type:varchar(20);not null"`
	EffectiveDate       time.Time        `gorm:"type:date;not null"`
	ExpiryDate          *time.Time       `gorm:"type:date;index"`
	IsCurrent           bool             `gorm:"not null;default:false"`
	PriceType           int64            `gorm:"not null;index:idx_prices_visibility"`
	VisibilityType      int64            `gorm:"not null;index:idx_prices_visibility"`
	VisibleOrgs         pq.Int64Array    `gorm:"type:bigint[]"`
	OrganizationID      *int64           `gorm:"index"`
	CreatedBy           string           `gorm:"type:varchar(64)"`
	CreatedAt           time.Time        `gorm:"not null"`
	UpdatedAt           time.Time        `gorm:"not null;index"`
	Remark              string           `gorm:"type:text"`
}

func (priceModel) TableName() string { return "prices" }

// BeforeCreate ensures the primary key is set.
func (m *priceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type historyModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PriceID       string    `gorm:"type:varchar(64);not null;index"`
	Snapshot      []byte    `gorm:"type:jsonb;not null"`
	OperationType string    `gorm:"type:varchar(16);not null"`
	OperatedBy    string    `gorm:"type:varchar(64)"`
	OperatedAt    time.Time `gorm:"not null;index"`
}

func (historyModel) TableName() string { return "price_history" }

func (m *historyModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type regionModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(128);not null"`
}

func (regionModel) TableName() string { return "regions" }

func toModel(p *domain.PriceRecord) priceModel {
	m := priceModel{
		ServiceID:           p.ServiceID,
		ServiceType:         int64(p.ServiceType),
		OriginRegionID:      p.OriginRegionID,
		DestinationRegionID: p.DestinationRegionID,
		WeightStart:         p.WeightStart,
		WeightEnd:           p.WeightEnd,
		VolumeStart:         p.VolumeStart,
		VolumeEnd:           p.VolumeEnd,
		Price:               p.Price,
		Currency:            p.Currency,
		PriceUnit:           p.PriceUnit,
		EffectiveDate:       p.EffectiveDate,
		ExpiryDate:          p.ExpiryDate,
		IsCurrent:           p.IsCurrent,
		PriceType:           int64(p.PriceType),
		VisibilityType:      int64(p.VisibilityType),
		OrganizationID:      p.OrganizationID,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Remark:              p.Remark,
	}
	if p.VisibleOrgs != nil {
		m.VisibleOrgs = pq.Int64Array(p.VisibleOrgs)
	}
	if id, err := uuid.Parse(p.ID); err == nil {
		m.ID = id
	}
	return m
}

func (m priceModel) toDomain() *domain.PriceRecord {
	p := &domain.PriceRecord{
		ID:                  m.ID.String(),
		ServiceID:           m.ServiceID,
		ServiceType:         domain.ServiceType(m.ServiceType),
		OriginRegionID:      m.OriginRegionID,
		DestinationRegionID: m.DestinationRegionID,
		WeightStart:         m.WeightStart,
		WeightEnd:           m.WeightEnd,
		VolumeStart:         m.VolumeStart,
		VolumeEnd:           m.VolumeEnd,
		Price:               m.Price,
		Currency:            m.Currency,
		PriceUnit:           m.PriceUnit,
		EffectiveDate:       m.EffectiveDate.UTC(),
		IsCurrent:           m.IsCurrent,
		PriceType:           domain.PriceType(m.PriceType),
		VisibilityType:      domain.VisibilityType(m.VisibilityType),
		OrganizationID:      m.OrganizationID,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
		Remark:              m.Remark,
	}
	if m.VisibleOrgs != nil {
		p.VisibleOrgs = []int64(m.VisibleOrgs)
	}
	if m.ExpiryDate != nil {
		exp := m.ExpiryDate.UTC()
		p.ExpiryDate = &exp
	}
	return p
}
