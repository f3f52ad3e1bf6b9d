package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// HistoryRepository appends price snapshots to the price_history collection.
type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection(collectionHistory)}
}

func (r *HistoryRepository) Insert(ctx context.Context, h *domain.PriceHistory) error {
	snapshot, err := toDocument(&h.Snapshot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := historyDocument{
		ID:            primitive.NewObjectID(),
		PriceID:       h.PriceID,
		Snapshot:      snapshot,
		OperationType: string(h.OperationType),
		OperatedBy:    h.OperatedBy,
		OperatedAt:    h.OperatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	h.ID = doc.ID.Hex()
	return nil
}
