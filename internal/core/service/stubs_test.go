package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory price store. Predicates are evaluated with filter.Eval, so the
// store behaves like the real ones without a database.
// ---------------------------------------------------------------------------

type stubPriceRepo struct {
	mu     sync.Mutex
	prices map[string]*domain.PriceRecord
	order  []string
	seq    int
	calls  int   // every method call
	err    error // if set, read methods return this error
}

func newStubPriceRepo(seed ...*domain.PriceRecord) *stubPriceRepo {
	r := &stubPriceRepo{prices: make(map[string]*domain.PriceRecord)}
	for _, p := range seed {
		_ = r.Create(context.Background(), p)
	}
	r.calls = 0
	return r
}

func (r *stubPriceRepo) matching(where filter.Expr) []*domain.PriceRecord {
	var out []*domain.PriceRecord
	for _, id := range r.order {
		p := r.prices[id]
		if filter.Eval(where, p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out
}

func (r *stubPriceRepo) FindCandidates(_ context.Context, where filter.Expr) ([]*domain.PriceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.matching(where), nil
}

func (r *stubPriceRepo) FindPage(_ context.Context, where filter.Expr, s ports.Sort, skip, take int) ([]*domain.PriceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	rows := r.matching(where)
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].FilterValue(s.Field)
		b, _ := rows[j].FilterValue(s.Field)
		if s.Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	if skip >= len(rows) {
		return nil, nil
	}
	rows = rows[skip:]
	if len(rows) > take {
		rows = rows[:take]
	}
	return rows, nil
}

func less(a, b any) bool {
	switch av := a.(type) {
	case decimal.Decimal:
		return av.LessThan(b.(decimal.Decimal))
	case time.Time:
		return av.Before(b.(time.Time))
	}
	return false
}

func (r *stubPriceRepo) Count(_ context.Context, where filter.Expr) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.matching(where))), nil
}

func (r *stubPriceRepo) FindByID(_ context.Context, id string) (*domain.PriceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.prices[id]
	if !ok {
		return nil, domain.ErrPriceNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPriceRepo) Create(_ context.Context, p *domain.PriceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	clone := *p
	r.prices[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPriceRepo) Update(_ context.Context, p *domain.PriceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.prices[p.ID]; !ok {
		return domain.ErrPriceNotFound
	}
	clone := *p
	r.prices[p.ID] = &clone
	return nil
}

func (r *stubPriceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.prices[id]; !ok {
		return domain.ErrPriceNotFound
	}
	delete(r.prices, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubPriceRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubRegions map[int64]string

func (s stubRegions) RegionNames(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if n, ok := s[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type spyHistory struct {
	mu      sync.Mutex
	entries []domain.PriceHistory
}

func (h *spyHistory) Record(e domain.PriceHistory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
}

type spyMetrics struct {
	NopMetrics
	mu        sync.Mutex
	hits      int
	misses    int
	conflicts int
	writes    map[domain.OperationType]int
}

func (m *spyMetrics) QueryCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *spyMetrics) ConflictDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *spyMetrics) PriceWritten(op domain.OperationType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writes == nil {
		m.writes = make(map[domain.OperationType]int)
	}
	m.writes[op]++
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func id64(n int64) *int64 { return &n }

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// current returns a current external public price for service 1, type 1,
// with no regions, valid for 2025.
func current(weightStart, weightEnd *decimal.Decimal) *domain.PriceRecord {
	return &domain.PriceRecord{
		ServiceID:      1,
		ServiceType:    domain.ServiceTraditional,
		WeightStart:    weightStart,
		WeightEnd:      weightEnd,
		Price:          decimal.NewFromInt(100),
		Currency:       "CNY",
		PriceUnit:      "kg",
		EffectiveDate:  day("2025-01-01"),
		ExpiryDate:     dayPtr("2025-12-31"),
		IsCurrent:      true,
		PriceType:      domain.PriceExternal,
		VisibilityType: domain.VisibleToAll,
	}
}

func validInput() ports.PriceInput {
	return ports.PriceInput{
		ServiceID:     "1",
		ServiceType:   "1",
		WeightStart:   "0",
		WeightEnd:     "10",
		Price:         "100",
		Currency:      "CNY",
		PriceUnit:     "kg",
		EffectiveDate: "2025-01-01",
		ExpiryDate:    "2025-12-31",
		IsCurrent:     true,
	}
}

func staff(orgID int64, perms ...string) *domain.Identity {
	return &domain.Identity{
		Subject:        fmt.Sprintf("user-%d", orgID),
		UserType:       domain.UserInternal,
		OrganizationID: id64(orgID),
		Permissions:    perms,
	}
}
