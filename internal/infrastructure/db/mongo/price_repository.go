package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

type PriceRepository struct {
	col *mongo.Collection
}

func NewPriceRepository(db *mongo.Database) *PriceRepository {
	return &PriceRepository{col: db.Collection(collectionPrices)}
}

// FindCandidates returns every price matching where.
func (r *PriceRepository) FindCandidates(ctx context.Context, where filter.Expr) ([]*domain.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, Render(where))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// FindPage returns one sorted page of prices matching where. Ties are broken
// by _id so pages are stable.
func (r *PriceRepository) FindPage(ctx context.Context, where filter.Expr, sort ports.Sort, skip, take int) ([]*domain.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dir := 1
	if sort.Desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: column(sort.Field), Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(skip)).
		SetLimit(int64(take))

	cur, err := r.col.Find(ctx, Render(where), opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

func (r *PriceRepository) Count(ctx context.Context, where filter.Expr) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, Render(where))
}

func (r *PriceRepository) FindByID(ctx context.Context, id string) (*domain.PriceRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d priceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

// Create inserts p and sets its id.
func (r *PriceRepository) Create(ctx context.Context, p *domain.PriceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d, err := toDocument(p)
	if err != nil {
		return err
	}
	d.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return err
	}
	p.ID = d.ID.Hex()
	return nil
}

func (r *PriceRepository) Update(ctx context.Context, p *domain.PriceRecord) error {
	d, err := toDocument(p)
	if err != nil {
		return err
	}
	if d.ID.IsZero() {
		return domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPriceNotFound
	}
	return nil
}

func (r *PriceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPriceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPriceNotFound
	}
	return nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*domain.PriceRecord, error) {
	defer cur.Close(ctx)

	var docs []priceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	out := make([]*domain.PriceRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
