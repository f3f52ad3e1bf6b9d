package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

// PriceRepository is the relational price store.
type PriceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

func (r *PriceRepository) scoped(ctx context.Context, where filter.Expr) *gorm.DB {
	cond, args := Render(where)
	return r.db.WithContext(ctx).Model(&priceModel{}).Where(cond, args...)
}

func (r *PriceRepository) FindCandidates(ctx context.Context, where filter.Expr) ([]*domain.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []priceModel
	if err := r.scoped(ctx, where).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

func (r *PriceRepository) FindPage(ctx context.Context, where filter.Expr, sort ports.Sort, skip, take int) ([]*domain.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []priceModel
	err := r.scoped(ctx, where).
		Order(clause.OrderByColumn{Column: clause.Column{Name: string(sort.Field)}, Desc: sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: sort.Desc}).
		Offset(skip).
		Limit(take).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

func (r *PriceRepository) Count(ctx context.Context, where filter.Expr) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.scoped(ctx, where).Count(&n).Error
	return n, err
}

func (r *PriceRepository) FindByID(ctx context.Context, id string) (*domain.PriceRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m priceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// Create inserts p and sets its id.
func (r *PriceRepository) Create(ctx context.Context, p *domain.PriceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := toModel(p)
	m.ID = uuid.Nil
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID.String()
	return nil
}

func (r *PriceRepository) Update(ctx context.Context, p *domain.PriceRecord) error {
	m := toModel(p)
	if m.ID == uuid.Nil {
		return domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&priceModel{}).Where("id = ?", m.ID).Select("*").Omit("id", "created_at").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPriceNotFound
	}
	return nil
}

func (r *PriceRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&priceModel{}, "id = ?", uid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPriceNotFound
	}
	return nil
}

func toDomainAll(rows []priceModel) []*domain.PriceRecord {
	out := make([]*domain.PriceRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out
}
