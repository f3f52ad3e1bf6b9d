package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RegionDirectory struct {
	col *mongo.Collection
}

func NewRegionDirectory(db *mongo.Database) *RegionDirectory {
	return &RegionDirectory{col: db.Collection(collectionRegions)}
}

// RegionNames returns the names of the given regions. Unknown ids are absent
// from the result.
func (r *RegionDirectory) RegionNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []regionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		names[d.ID] = d.Name
	}
	return names, nil
}
