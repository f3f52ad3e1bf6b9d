package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

type stubHistoryRepo struct {
	mu      sync.Mutex
	byPrice map[string][]domain.OperationType
	fail    string // price id whose writes fail
}

func (r *stubHistoryRepo) Insert(_ context.Context, h *domain.PriceHistory) error {
	if h.PriceID == r.fail {
		return errors.New("write failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPrice[h.PriceID] = append(r.byPrice[h.PriceID], h.OperationType)
	return nil
}

func TestHistoryDispatcher_PerPriceOrder(t *testing.T) {
	repo := &stubHistoryRepo{byPrice: make(map[string][]domain.OperationType)}
	d := NewHistoryDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	ops := []domain.OperationType{domain.OperationCreate, domain.OperationUpdate, domain.OperationUpdate, domain.OperationDelete}
	for i := 0; i < 20; i++ {
		for _, op := range ops {
			d.Record(domain.PriceHistory{PriceID: fmt.Sprintf("p%d", i), OperationType: op})
		}
	}
	d.Stop()

	if len(repo.byPrice) != 20 {
		t.Fatalf("prices written = %d, want 20", len(repo.byPrice))
	}
	for id, got := range repo.byPrice {
		if fmt.Sprint(got) != fmt.Sprint(ops) {
			t.Errorf("%s: history order = %v, want %v", id, got, ops)
		}
	}
}

func TestHistoryDispatcher_FailuresDoNotStopWorkers(t *testing.T) {
	repo := &stubHistoryRepo{byPrice: make(map[string][]domain.OperationType), fail: "bad"}
	d := NewHistoryDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.PriceHistory{PriceID: "bad", OperationType: domain.OperationCreate})
	d.Record(domain.PriceHistory{PriceID: "good", OperationType: domain.OperationCreate})
	d.Stop()

	if len(repo.byPrice["good"]) != 1 {
		t.Error("worker must keep going after a failed write")
	}
}

func TestHistoryDispatcher_RecordAfterStopIsDropped(t *testing.T) {
	repo := &stubHistoryRepo{byPrice: make(map[string][]domain.OperationType)}
	d := NewHistoryDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Record(domain.PriceHistory{PriceID: "late"})
	if d.Pending() != 0 || len(repo.byPrice) != 0 {
		t.Error("entries recorded after Stop must be dropped")
	}
}

func TestShardIndex_Stable(t *testing.T) {
	d := NewHistoryDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("workers = %d, want %d", len(d.workers), defaultWorkers)
	}
	for _, id := range []string{"", "a", "65f0c0ffee", "7c9e6679-7425-40de-944b-e07fc1f90ae7"} {
		i := d.shardIndex(id)
		if i < 0 || i >= defaultWorkers || i != d.shardIndex(id) {
			t.Errorf("shardIndex(%q) = %d", id, i)
		}
	}
}
