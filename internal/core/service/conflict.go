package service

import (
	"context"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

// ConflictResolver decides whether a proposed current price would overlap an
// existing current price in the same scope. It only reads from the store.
type ConflictResolver struct {
	repo    ports.PriceRepository
	regions ports.RegionDirectory
}

// NewConflictResolver returns a resolver. regions may be nil, in which case
// conflicts carry no region names.
func NewConflictResolver(repo ports.PriceRepository, regions ports.RegionDirectory) *ConflictResolver {
	return &ConflictResolver{repo: repo, regions: regions}
}

// CheckConflict returns nil when p may be written, or a report listing every
// colliding price. Prices that are not current are never checked. excludeID
// skips the record being updated.
func (r *ConflictResolver) CheckConflict(ctx context.Context, p *domain.PriceRecord, excludeID string) (*domain.ConflictReport, error) {
	if !p.IsCurrent {
		return nil, nil
	}

	where := filter.AllOf(scopeExpr(p), dateWindowExpr(p.EffectiveDate, p.ExpiryDate))
	if excludeID != "" {
		where = filter.AllOf(where, filter.NotEqual(domain.FieldID, excludeID))
	}

	candidates, err := r.repo.FindCandidates(ctx, where)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.Conflict
	for _, c := range candidates {
		if !RangesOverlap(p.WeightStart, p.WeightEnd, c.WeightStart, c.WeightEnd) {
			continue
		}
		if !RangesOverlap(p.VolumeStart, p.VolumeEnd, c.VolumeStart, c.VolumeEnd) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{Price: *c})
	}
	if len(conflicts) == 0 {
		return nil, nil
	}

	if err := r.attachRegionNames(ctx, conflicts); err != nil {
		return nil, err
	}
	return &domain.ConflictReport{HasConflict: true, Conflicts: conflicts}, nil
}

func (r *ConflictResolver) attachRegionNames(ctx context.Context, conflicts []domain.Conflict) error {
	if r.regions == nil {
		return nil
	}
	ids := make([]int64, 0, len(conflicts)*2)
	for _, c := range conflicts {
		if c.Price.OriginRegionID != nil {
			ids = append(ids, *c.Price.OriginRegionID)
		}
		if c.Price.DestinationRegionID != nil {
			ids = append(ids, *c.Price.DestinationRegionID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	names, err := r.regions.RegionNames(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	for i := range conflicts {
		conflicts[i].OriginRegionName = regionName(names, conflicts[i].Price.OriginRegionID)
		conflicts[i].DestinationRegionName = regionName(names, conflicts[i].Price.DestinationRegionID)
	}
	return nil
}

func regionName(names map[int64]string, id *int64) string {
	if id == nil {
		return allRegions
	}
	return names[*id]
}

const allRegions = "All regions"
