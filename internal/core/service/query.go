package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
	"github.com/99minutos/freight-pricing/internal/core/ports"
	"github.com/99minutos/freight-pricing/pkg/ttlcache"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryCache memoizes query results per parameter set and caller fingerprint.
type QueryCache = ttlcache.Cache[*ports.PriceQueryResult]

// QueryService answers price list queries for a caller, applying visibility
// rules, sorting, paging and enrichment. Results are cached.
type QueryService struct {
	repo    ports.PriceRepository
	regions ports.RegionDirectory
	cache   *QueryCache
	metrics ports.PricingMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewQueryService wires a query service. regions and metrics may be nil.
func NewQueryService(repo ports.PriceRepository, regions ports.RegionDirectory, cache *QueryCache, metrics ports.PricingMetrics, logger zerolog.Logger) *QueryService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &QueryService{
		repo:    repo,
		regions: regions,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for expiry calculations.
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

// Invalidate drops every cached result. Called after any price write.
func (s *QueryService) Invalidate() {
	s.cache.Clear()
}

// Query returns one page of the prices visible to identity.
func (s *QueryService) Query(ctx context.Context, q ports.PriceQuery, identity *domain.Identity) (*ports.PriceQueryResult, error) {
	q = normalizeQuery(q)

	visibility := VisibilityFilter(identity)
	if filter.IsNever(visibility) {
		return emptyPage(q), nil
	}

	key := cacheKey(q, identity)
	if res, ok := s.cache.Get(key); ok {
		s.metrics.QueryCache(true)
		return res, nil
	}
	s.metrics.QueryCache(false)

	return s.cache.GetOrSet(ctx, key, func(ctx context.Context) (*ports.PriceQueryResult, error) {
		start := time.Now()
		defer func() { s.metrics.QueryDuration(time.Since(start)) }()
		return s.run(ctx, q, filter.AllOf(s.queryFilter(q), visibility))
	}, ttlcache.DefaultExpiration)
}

func (s *QueryService) run(ctx context.Context, q ports.PriceQuery, where filter.Expr) (*ports.PriceQueryResult, error) {
	if filter.IsNever(where) {
		return emptyPage(q), nil
	}

	total, err := s.repo.Count(ctx, where)
	if err != nil {
		return nil, err
	}
	res := emptyPage(q)
	res.Pagination.Total = total
	if total == 0 {
		return res, nil
	}

	rows, err := s.repo.FindPage(ctx, where, sortOf(q), (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, err
	}

	names, err := s.regionNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, p := range rows {
		v := Enrich(*p, now)
		if p.OriginRegionID != nil {
			v.OriginRegionName = names[*p.OriginRegionID]
		}
		if p.DestinationRegionID != nil {
			v.DestinationRegionName = names[*p.DestinationRegionID]
		}
		res.Records = append(res.Records, v)
	}
	s.logger.Debug().Int64("total", total).Int("page", q.Page).Int("rows", len(rows)).Msg("price query executed")
	return res, nil
}

func (s *QueryService) regionNames(ctx context.Context, rows []*domain.PriceRecord) (map[int64]string, error) {
	if s.regions == nil {
		return nil, nil
	}
	var ids []int64
	for _, p := range rows {
		if p.OriginRegionID != nil {
			ids = append(ids, *p.OriginRegionID)
		}
		if p.DestinationRegionID != nil {
			ids = append(ids, *p.DestinationRegionID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.regions.RegionNames(ctx, uniqueIDs(ids))
}

// queryFilter translates the list filters of q into a predicate. Weight and
// volume use the same wildcard overlap rule as conflict detection.
func (s *QueryService) queryFilter(q ports.PriceQuery) filter.Expr {
	terms := []filter.Expr{
		rangeOverlapExpr(domain.FieldWeightStart, domain.FieldWeightEnd, q.WeightStart, q.WeightEnd),
		rangeOverlapExpr(domain.FieldVolumeStart, domain.FieldVolumeEnd, q.VolumeStart, q.VolumeEnd),
	}
	if q.ServiceID != nil {
		terms = append(terms, filter.Equal(domain.FieldServiceID, *q.ServiceID))
	}
	if q.ServiceType != nil {
		terms = append(terms, filter.Equal(domain.FieldServiceType, int64(*q.ServiceType)))
	}
	if q.OriginRegionID != nil {
		terms = append(terms, filter.Equal(domain.FieldOriginRegionID, *q.OriginRegionID))
	}
	if q.DestinationRegionID != nil {
		terms = append(terms, filter.Equal(domain.FieldDestinationRegionID, *q.DestinationRegionID))
	}
	if q.MinPrice != nil {
		terms = append(terms, filter.Gte(domain.FieldPrice, *q.MinPrice))
	}
	if q.MaxPrice != nil {
		terms = append(terms, filter.Lte(domain.FieldPrice, *q.MaxPrice))
	}
	if q.EffectiveFrom != nil {
		terms = append(terms, filter.Gte(domain.FieldEffectiveDate, *q.EffectiveFrom))
	}
	if q.EffectiveTo != nil {
		terms = append(terms, filter.Lte(domain.FieldEffectiveDate, *q.EffectiveTo))
	}
	if q.ExpiringSoon {
		now := s.now()
		terms = append(terms,
			filter.Gte(domain.FieldExpiryDate, now),
			filter.Lte(domain.FieldExpiryDate, now.AddDate(0, 0, expiringSoonDays)),
		)
	}
	if q.OrganizationID != nil {
		terms = append(terms, filter.Equal(domain.FieldOrganizationID, *q.OrganizationID))
	}
	if q.CreatedBy != "" {
		terms = append(terms, filter.Equal(domain.FieldCreatedBy, q.CreatedBy))
	}
	if q.IsCurrent != nil {
		terms = append(terms, filter.Equal(domain.FieldIsCurrent, *q.IsCurrent))
	}
	return filter.AllOf(terms...)
}

func normalizeQuery(q ports.PriceQuery) ports.PriceQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = defaultPageSize
	case q.PageSize > maxPageSize:
		q.PageSize = maxPageSize
	}
	q.SortOrder = strings.ToLower(q.SortOrder)
	if q.SortOrder != "desc" {
		q.SortOrder = "asc"
	}
	switch q.SortBy {
	case "price", "effectiveDate":
	default:
		q.SortBy = "updatedAt"
	}
	return q
}

func sortOf(q ports.PriceQuery) ports.Sort {
	field := domain.FieldUpdatedAt
	switch q.SortBy {
	case "price":
		field = domain.FieldPrice
	case "effectiveDate":
		field = domain.FieldEffectiveDate
	}
	return ports.Sort{Field: field, Desc: q.SortOrder == "desc"}
}

func emptyPage(q ports.PriceQuery) *ports.PriceQueryResult {
	return &ports.PriceQueryResult{
		Records:    []ports.PriceView{},
		Pagination: ports.Pagination{Current: q.Page, PageSize: q.PageSize},
	}
}

// fingerprint is the part of an identity that can change query results.
type fingerprint struct {
	UserType       domain.UserType `json:"u"`
	OrganizationID *int64          `json:"o"`
	Permissions    []string        `json:"p"`
	Privileged     bool            `json:"r"`
}

func cacheKey(q ports.PriceQuery, identity *domain.Identity) string {
	fp := fingerprint{UserType: domain.UserAnonymous}
	if identity != nil && identity.UserType != domain.UserAnonymous {
		fp.UserType = identity.UserType
		fp.OrganizationID = identity.OrganizationID
		fp.Privileged = identity.IsPrivileged()
		for _, p := range identity.Permissions {
			if strings.HasPrefix(p, "price:") {
				fp.Permissions = append(fp.Permissions, p)
			}
		}
		sort.Strings(fp.Permissions)
	}
	b, _ := json.Marshal(struct {
		Q  ports.PriceQuery `json:"q"`
		FP fingerprint      `json:"i"`
	}{q, fp})
	return "prices:" + string(b)
}
