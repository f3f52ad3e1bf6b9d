package ports

import (
	"context"
	"time"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

// Sort orders a page of prices.
type Sort struct {
	Field filter.Field
	Desc  bool
}

// PriceRepository is the Price Store. Store errors are returned as-is to the
// caller; the core never retries them.
type PriceRepository interface {
	// FindCandidates returns every price matching where, unpaged.
	FindCandidates(ctx context.Context, where filter.Expr) ([]*domain.PriceRecord, error)
	// FindPage returns at most take prices matching where, after skipping skip rows.
	FindPage(ctx context.Context, where filter.Expr, sort Sort, skip, take int) ([]*domain.PriceRecord, error)
	Count(ctx context.Context, where filter.Expr) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.PriceRecord, error)
	// Create inserts p and sets p.ID.
	Create(ctx context.Context, p *domain.PriceRecord) error
	Update(ctx context.Context, p *domain.PriceRecord) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository persists the append-only price history trail.
type HistoryRepository interface {
	Insert(ctx context.Context, h *domain.PriceHistory) error
}

// RegionDirectory resolves region ids to display names.
type RegionDirectory interface {
	RegionNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// ScopeLocker serialises writers of the same conflict scope so the
// check-then-write sequence cannot interleave across processes.
type ScopeLocker interface {
	// Lock blocks until the scope is held or ctx is done. The returned func
	// releases the lock.
	Lock(ctx context.Context, scope string) (unlock func(context.Context) error, err error)
}

// HistoryRecorder accepts history entries for asynchronous persistence.
type HistoryRecorder interface {
	Record(h domain.PriceHistory)
}

// PricingMetrics receives operational signals from the pricing core.
type PricingMetrics interface {
	QueryCache(hit bool)
	QueryDuration(d time.Duration)
	ConflictDetected()
	PriceWritten(op domain.OperationType)
}
