package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, h *domain.PriceHistory) error {
	snapshot, err := json.Marshal(h.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := historyModel{
		PriceID:       h.PriceID,
		Snapshot:      snapshot,
		OperationType: string(h.OperationType),
		OperatedBy:    h.OperatedBy,
		OperatedAt:    h.OperatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	h.ID = m.ID.String()
	return nil
}
