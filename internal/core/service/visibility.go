package service

import (
	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

// VisibilityFilter builds the predicate restricting which prices identity may
// see. A nil or anonymous identity sees only external prices visible to all
// organizations. An identity without any view permission gets a predicate
// that matches nothing.
func VisibilityFilter(identity *domain.Identity) filter.Expr {
	if identity == nil || identity.UserType == domain.UserAnonymous {
		return filter.AllOf(
			filter.Equal(domain.FieldPriceType, int64(domain.PriceExternal)),
			filter.Equal(domain.FieldVisibilityType, int64(domain.VisibleToAll)),
		)
	}

	byType := priceTypeFilter(identity)
	if filter.IsNever(byType) || identity.IsPrivileged() {
		return byType
	}
	return filter.AllOf(byType, organizationFilter(identity.OrganizationID))
}

func priceTypeFilter(identity *domain.Identity) filter.Expr {
	external := identity.HasPermission(domain.PermPriceViewExternal, domain.PermPriceView)
	internal := identity.HasPermission(domain.PermPriceViewInternal, domain.PermPriceView)

	switch {
	case external && internal:
		return filter.True()
	case external:
		return filter.Equal(domain.FieldPriceType, int64(domain.PriceExternal))
	case internal:
		return filter.Equal(domain.FieldPriceType, int64(domain.PriceInternal))
	}
	return filter.False()
}

func organizationFilter(orgID *int64) filter.Expr {
	public := filter.Equal(domain.FieldVisibilityType, int64(domain.VisibleToAll))
	if orgID == nil {
		return public
	}
	return filter.AnyOf(
		public,
		filter.AllOf(
			filter.Equal(domain.FieldVisibilityType, int64(domain.VisibleToListed)),
			filter.Has(domain.FieldVisibleOrgs, *orgID),
		),
		filter.AllOf(
			filter.Equal(domain.FieldVisibilityType, int64(domain.VisibleToOwnerOnly)),
			filter.Equal(domain.FieldOrganizationID, *orgID),
		),
	)
}
