package postgres

import (
	"context"

	"gorm.io/gorm"
)

type RegionDirectory struct {
	db *gorm.DB
}

func NewRegionDirectory(db *gorm.DB) *RegionDirectory {
	return &RegionDirectory{db: db}
}

func (r *RegionDirectory) RegionNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []regionModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
