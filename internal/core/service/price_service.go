package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
)

type invalidator interface {
	Invalidate()
}

// PriceService is the write path. Every write of a current price runs
// validation, the conflict check and the store write while holding the lock
// of the price's scope, so two writers cannot both pass the check.
type PriceService struct {
	repo      ports.PriceRepository
	validator *PriceValidator
	resolver  *ConflictResolver
	locker    ports.ScopeLocker
	history   ports.HistoryRecorder
	cache     invalidator
	metrics   ports.PricingMetrics
	logger    zerolog.Logger
	now       func() time.Time
}

// PriceServiceDeps groups the collaborators of PriceService. Locker defaults
// to a LocalLocker; History, Cache and Metrics are optional.
type PriceServiceDeps struct {
	Repo     ports.PriceRepository
	Resolver *ConflictResolver
	Locker   ports.ScopeLocker
	History  ports.HistoryRecorder
	Cache    invalidator
	Metrics  ports.PricingMetrics
	Logger   zerolog.Logger
}

func NewPriceService(d PriceServiceDeps) *PriceService {
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.Metrics == nil {
		d.Metrics = NopMetrics{}
	}
	if d.Resolver == nil {
		d.Resolver = NewConflictResolver(d.Repo, nil)
	}
	return &PriceService{
		repo:      d.Repo,
		validator: NewPriceValidator(),
		resolver:  d.Resolver,
		locker:    d.Locker,
		history:   d.History,
		cache:     d.Cache,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (s *PriceService) WithClock(now func() time.Time) *PriceService {
	s.now = now
	return s
}

func (s *PriceService) Validate(in ports.PriceInput) ports.ValidationResult {
	return s.validator.Validate(in)
}

// CheckConflict is a dry run of the conflict check for in. It returns a
// *domain.ValidationError when in is malformed.
func (s *PriceService) CheckConflict(ctx context.Context, in ports.PriceInput, excludeID string) (*domain.ConflictReport, error) {
	p, err := s.parse(in)
	if err != nil {
		return nil, err
	}
	return s.resolver.CheckConflict(ctx, p, excludeID)
}

func (s *PriceService) Create(ctx context.Context, in ports.PriceInput, identity *domain.Identity) (*domain.PriceRecord, error) {
	if !canWrite(identity, domain.PermPriceCreate) {
		return nil, domain.ErrForbidden
	}
	return s.create(ctx, in, identity, domain.OperationCreate)
}

func (s *PriceService) Update(ctx context.Context, id string, in ports.PriceInput, identity *domain.Identity) (*domain.PriceRecord, error) {
	if !canWrite(identity, domain.PermPriceUpdate) {
		return nil, domain.ErrForbidden
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(identity, existing) {
		return nil, domain.ErrForbidden
	}

	p, err := s.parse(in)
	if err != nil {
		return nil, err
	}
	if err := s.assignOrganization(p, identity); err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedBy = existing.CreatedBy
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()

	err = s.guarded(ctx, p, id, func() error { return s.repo.Update(ctx, p) })
	if err != nil {
		return nil, err
	}
	s.written(p, domain.OperationUpdate, identity)
	return p, nil
}

func (s *PriceService) Delete(ctx context.Context, id string, identity *domain.Identity) error {
	if !canWrite(identity, domain.PermPriceDelete) {
		return domain.ErrForbidden
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !owns(identity, existing) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.written(existing, domain.OperationDelete, identity)
	return nil
}

// Get returns the price with id if identity may see it. Hidden prices are
// reported as not found.
func (s *PriceService) Get(ctx context.Context, id string, identity *domain.Identity) (*domain.PriceRecord, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !filter.Eval(VisibilityFilter(identity), p) {
		return nil, domain.ErrPriceNotFound
	}
	return p, nil
}

// Import creates rows one by one. Rejected rows are reported in their
// outcome and do not stop the batch; a store failure does.
func (s *PriceService) Import(ctx context.Context, rows []ports.PriceInput, identity *domain.Identity) ([]ports.ImportOutcome, error) {
	if !canWrite(identity, domain.PermPriceImport) {
		return nil, domain.ErrForbidden
	}
	out := make([]ports.ImportOutcome, 0, len(rows))
	for i, in := range rows {
		o := ports.ImportOutcome{Row: i + 1}
		p, err := s.create(ctx, in, identity, domain.OperationImport)

		var verr *domain.ValidationError
		var cerr *domain.ConflictError
		switch {
		case err == nil:
			o.ID = p.ID
		case errors.As(err, &verr):
			o.Errors = verr.Errors
		case errors.As(err, &cerr):
			o.Errors = []string{cerr.Error()}
			o.ConflictIDs = cerr.Report.IDs()
		case errors.Is(err, domain.ErrForbidden):
			o.Errors = []string{err.Error()}
		default:
			return out, err
		}
		out = append(out, o)
	}
	s.logger.Info().Int("rows", len(rows)).Msg("price import finished")
	return out, nil
}

func (s *PriceService) create(ctx context.Context, in ports.PriceInput, identity *domain.Identity, op domain.OperationType) (*domain.PriceRecord, error) {
	p, err := s.parse(in)
	if err != nil {
		return nil, err
	}
	if err := s.assignOrganization(p, identity); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.CreatedBy = identity.Subject
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.guarded(ctx, p, "", func() error { return s.repo.Create(ctx, p) }); err != nil {
		return nil, err
	}
	s.written(p, op, identity)
	return p, nil
}

// guarded runs write while holding p's scope lock, after confirming that p
// does not collide with another current price.
func (s *PriceService) guarded(ctx context.Context, p *domain.PriceRecord, excludeID string, write func() error) error {
	if !p.IsCurrent {
		return write()
	}

	unlock, err := s.locker.Lock(ctx, p.ScopeKey())
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn().Err(err).Str("scope", p.ScopeKey()).Msg("failed to release scope lock")
		}
	}()

	report, err := s.resolver.CheckConflict(ctx, p, excludeID)
	if err != nil {
		return err
	}
	if report != nil {
		s.metrics.ConflictDetected()
		s.logger.Info().Str("scope", p.ScopeKey()).Strs("conflicts", report.IDs()).Msg("price write rejected by conflict")
		return &domain.ConflictError{Report: report}
	}
	return write()
}

func (s *PriceService) parse(in ports.PriceInput) (*domain.PriceRecord, error) {
	res := s.validator.Validate(in)
	if !res.IsValid {
		return nil, &domain.ValidationError{Errors: res.Errors}
	}
	p, err := parsePriceInput(in)
	if err != nil {
		return nil, &domain.ValidationError{Errors: []string{err.Error()}}
	}
	return p, nil
}

// assignOrganization defaults the owner to the caller's organization. Only
// privileged callers may write prices owned by another organization.
func (s *PriceService) assignOrganization(p *domain.PriceRecord, identity *domain.Identity) error {
	if p.OrganizationID == nil {
		p.OrganizationID = identity.OrganizationID
		return nil
	}
	if identity.IsPrivileged() {
		return nil
	}
	if identity.OrganizationID == nil || *identity.OrganizationID != *p.OrganizationID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *PriceService) written(p *domain.PriceRecord, op domain.OperationType, identity *domain.Identity) {
	if s.history != nil {
		s.history.Record(domain.PriceHistory{
			PriceID:       p.ID,
			Snapshot:      *p,
			OperationType: op,
			OperatedBy:    identity.Subject,
			OperatedAt:    s.now().UTC(),
		})
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	s.metrics.PriceWritten(op)
	s.logger.Info().Str("price_id", p.ID).Str("operation", string(op)).Str("by", identity.Subject).Msg("price written")
}

func canWrite(identity *domain.Identity, perm string) bool {
	if identity == nil || identity.UserType == domain.UserAnonymous {
		return false
	}
	return identity.HasPermission(perm) || identity.HasRole(domain.RoleSuperAdmin)
}

// owns reports whether identity may modify p.
func owns(identity *domain.Identity, p *domain.PriceRecord) bool {
	if identity.IsPrivileged() {
		return true
	}
	return p.OrganizationID != nil && identity.OrganizationID != nil && *p.OrganizationID == *identity.OrganizationID
}
