package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

type spyInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (s *spyInvalidator) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

type priceServiceFixture struct {
	svc     *PriceService
	repo    *stubPriceRepo
	history *spyHistory
	cache   *spyInvalidator
	metrics *spyMetrics
}

func newPriceServiceFixture(seed ...*domain.PriceRecord) *priceServiceFixture {
	f := &priceServiceFixture{
		repo:    newStubPriceRepo(seed...),
		history: &spyHistory{},
		cache:   &spyInvalidator{},
		metrics: &spyMetrics{},
	}
	f.svc = NewPriceService(PriceServiceDeps{
		Repo:    f.repo,
		History: f.history,
		Cache:   f.cache,
		Metrics: f.metrics,
		Logger:  zerolog.Nop(),
	}).WithClock(func() time.Time { return queryNow })
	return f
}

func writer(orgID int64) *domain.Identity {
	return staff(orgID,
		domain.PermPriceView,
		domain.PermPriceCreate,
		domain.PermPriceUpdate,
		domain.PermPriceDelete,
		domain.PermPriceImport,
	)
}

func TestCreate_Success(t *testing.T) {
	f := newPriceServiceFixture()

	p, err := f.svc.Create(context.Background(), validInput(), writer(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected store-assigned id")
	}
	if p.OrganizationID == nil || *p.OrganizationID != 4 {
		t.Errorf("owner must default to the caller's organization, got %v", p.OrganizationID)
	}
	if p.CreatedBy != "user-4" || !p.CreatedAt.Equal(queryNow) {
		t.Errorf("provenance = %q at %v", p.CreatedBy, p.CreatedAt)
	}
	if len(f.history.entries) != 1 || f.history.entries[0].OperationType != domain.OperationCreate {
		t.Errorf("history = %+v", f.history.entries)
	}
	if f.cache.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", f.cache.calls)
	}
}

func TestCreate_RejectsConflict(t *testing.T) {
	f := newPriceServiceFixture()
	first, err := f.svc.Create(context.Background(), validInput(), writer(1))
	if err != nil {
		t.Fatal(err)
	}

	in := validInput()
	in.WeightStart, in.WeightEnd = "5", "15"
	_, err = f.svc.Create(context.Background(), in, writer(1))

	var cerr *domain.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ids := cerr.Report.IDs(); len(ids) != 1 || ids[0] != first.ID {
		t.Errorf("conflict ids = %v", ids)
	}
	if f.metrics.conflicts != 1 {
		t.Errorf("conflict metric = %d", f.metrics.conflicts)
	}
	if len(f.history.entries) != 1 {
		t.Errorf("rejected write must not be recorded, history = %d", len(f.history.entries))
	}
}

func TestCreate_NotCurrentSkipsConflictCheck(t *testing.T) {
	f := newPriceServiceFixture()
	_, _ = f.svc.Create(context.Background(), validInput(), writer(1))

	in := validInput()
	in.IsCurrent = false
	if _, err := f.svc.Create(context.Background(), in, writer(1)); err != nil {
		t.Errorf("draft prices never conflict, got %v", err)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	f := newPriceServiceFixture()
	in := validInput()
	in.Price = ""
	in.WeightStart = "20"

	_, err := f.svc.Create(context.Background(), in, writer(1))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected both problems reported, got %v", verr.Errors)
	}
	if f.repo.callCount() != 0 {
		t.Error("invalid payloads must not reach the store")
	}
}

func TestCreate_Forbidden(t *testing.T) {
	f := newPriceServiceFixture()

	tests := []struct {
		name     string
		identity *domain.Identity
		mutate   func(*ports.PriceInput)
	}{
		{"anonymous", nil, func(*ports.PriceInput) {}},
		{"missing permission", staff(1, domain.PermPriceView), func(*ports.PriceInput) {}},
		{"foreign organization", writer(1), func(in *ports.PriceInput) { in.OrganizationID = "2" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), validInputWith(tt.mutate), tt.identity)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestCreate_PrivilegedMayAssignOrganization(t *testing.T) {
	f := newPriceServiceFixture()
	admin := writer(1)
	admin.Permissions = append(admin.Permissions, domain.PermPriceManageOrg)

	p, err := f.svc.Create(context.Background(), validInputWith(func(in *ports.PriceInput) { in.OrganizationID = "2" }), admin)
	if err != nil {
		t.Fatal(err)
	}
	if *p.OrganizationID != 2 {
		t.Errorf("organization = %d, want 2", *p.OrganizationID)
	}
}

func TestCreate_ConcurrentWritersCannotBothPass(t *testing.T) {
	f := newPriceServiceFixture()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), validInput(), writer(1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		var cerr *domain.ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &cerr):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != writers-1 {
		t.Errorf("ok/conflicts = %d/%d, want 1/%d", ok, conflicts, writers-1)
	}
}

func TestUpdate(t *testing.T) {
	f := newPriceServiceFixture()
	p, _ := f.svc.Create(context.Background(), validInput(), writer(1))

	in := validInput()
	in.Price = "120"
	updated, err := f.svc.Update(context.Background(), p.ID, in, writer(1))
	if err != nil {
		t.Fatalf("updating a price must not conflict with itself: %v", err)
	}
	if updated.ID != p.ID || updated.Price.String() != "120" || updated.CreatedBy != p.CreatedBy {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if last := f.history.entries[len(f.history.entries)-1]; last.OperationType != domain.OperationUpdate || last.PriceID != p.ID {
		t.Errorf("history = %+v", last)
	}
}

func TestUpdate_ForeignOrganization(t *testing.T) {
	f := newPriceServiceFixture()
	p, _ := f.svc.Create(context.Background(), validInput(), writer(1))

	if _, err := f.svc.Update(context.Background(), p.ID, validInput(), writer(2)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newPriceServiceFixture()
	if _, err := f.svc.Update(context.Background(), "missing", validInput(), writer(1)); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Errorf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newPriceServiceFixture()
	p, _ := f.svc.Create(context.Background(), validInput(), writer(1))

	if err := f.svc.Delete(context.Background(), p.ID, writer(2)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign org, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), p.ID, writer(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.repo.FindByID(context.Background(), p.ID); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Error("price still stored after delete")
	}
	last := f.history.entries[len(f.history.entries)-1]
	if last.OperationType != domain.OperationDelete || last.Snapshot.ID != p.ID {
		t.Errorf("history = %+v", last)
	}
}

func TestGet_HiddenPriceIsNotFound(t *testing.T) {
	owned := visibilityFixture(domain.PriceExternal, domain.VisibleToOwnerOnly, id64(2))
	f := newPriceServiceFixture(owned)

	if _, err := f.svc.Get(context.Background(), owned.ID, staff(1, domain.PermPriceView)); !errors.Is(err, domain.ErrPriceNotFound) {
		t.Errorf("expected ErrPriceNotFound, got %v", err)
	}
	got, err := f.svc.Get(context.Background(), owned.ID, staff(2, domain.PermPriceView))
	if err != nil || got.ID != owned.ID {
		t.Errorf("owner must see the price: %v", err)
	}
}

func TestImport(t *testing.T) {
	f := newPriceServiceFixture()

	bad := validInput()
	bad.Currency = ""
	overlapping := validInput()
	overlapping.WeightStart, overlapping.WeightEnd = "5", "15"
	other := validInput()
	other.ServiceID = "2"

	out, err := f.svc.Import(context.Background(), []ports.PriceInput{validInput(), bad, overlapping, other}, writer(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(out))
	}
	if out[0].ID == "" || out[3].ID == "" {
		t.Errorf("rows 1 and 4 must be created: %+v", out)
	}
	if len(out[1].Errors) == 0 || out[1].ID != "" {
		t.Errorf("row 2 must fail validation: %+v", out[1])
	}
	if len(out[2].ConflictIDs) != 1 || out[2].ConflictIDs[0] != out[0].ID {
		t.Errorf("row 3 must conflict with row 1: %+v", out[2])
	}
	if f.metrics.writes[domain.OperationImport] != 2 {
		t.Errorf("import writes = %d, want 2", f.metrics.writes[domain.OperationImport])
	}
}

func TestImport_RequiresPermission(t *testing.T) {
	f := newPriceServiceFixture()
	if _, err := f.svc.Import(context.Background(), []ports.PriceInput{validInput()}, staff(1, domain.PermPriceCreate)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCheckConflictDryRun(t *testing.T) {
	f := newPriceServiceFixture()
	p, _ := f.svc.Create(context.Background(), validInput(), writer(1))

	report, err := f.svc.CheckConflict(context.Background(), validInput(), "")
	if err != nil || report == nil {
		t.Fatalf("expected conflict report, got %v / %v", report, err)
	}
	report, err = f.svc.CheckConflict(context.Background(), validInput(), p.ID)
	if err != nil || report != nil {
		t.Errorf("excluding the price itself must clear the conflict, got %v / %v", report, err)
	}

	var verr *domain.ValidationError
	if _, err := f.svc.CheckConflict(context.Background(), ports.PriceInput{}, ""); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.Lock(context.Background(), "scope")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "scope"); !errors.Is(err, domain.ErrScopeLocked) {
		t.Errorf("expected ErrScopeLocked, got %v", err)
	}

	_ = unlock(context.Background())
	_ = unlock(context.Background())
	if _, err := l.Lock(context.Background(), "scope"); err != nil {
		t.Errorf("lock must be free after unlock: %v", err)
	}
}
