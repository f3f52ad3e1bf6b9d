package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 10 * time.Second
)

// HistoryDispatcher persists price history off the request path. Entries are
// routed to a fixed set of workers by hashing the price id, so the history of
// one price is written in order.
type HistoryDispatcher struct {
	workers []chan domain.PriceHistory
	repo    ports.HistoryRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewHistoryDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHistoryDispatcher(numWorkers int, repo ports.HistoryRepository, log zerolog.Logger) *HistoryDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &HistoryDispatcher{
		workers: make([]chan domain.PriceHistory, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PriceHistory, channelBuffer)
	}
	return d
}

// Start launches the workers. ctx only carries values to the store calls;
// workers run until Stop.
func (d *HistoryDispatcher) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record implements ports.HistoryRecorder. It blocks only when the worker's
// buffer is full. Entries recorded after Stop are dropped.
func (d *HistoryDispatcher) Record(h domain.PriceHistory) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("price_id", h.PriceID).Msg("history dispatcher stopped, entry dropped")
		return
	}
	d.workers[d.shardIndex(h.PriceID)] <- h
}

// Stop closes the queues and waits until every buffered entry is written.
func (d *HistoryDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Pending returns the number of entries waiting to be written.
func (d *HistoryDispatcher) Pending() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

func (d *HistoryDispatcher) shardIndex(priceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(priceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *HistoryDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PriceHistory) {
	defer d.wg.Done()
	for h := range ch {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		if err := d.repo.Insert(wctx, &h); err != nil {
			d.log.Warn().Err(err).
				Str("price_id", h.PriceID).
				Str("operation", string(h.OperationType)).
				Int("worker_id", id).
				Msg("price history write failed")
		}
		cancel()
	}
}
