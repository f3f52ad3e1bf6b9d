package service

import (
	"testing"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

func visibilityFixture(pt domain.PriceType, vt domain.VisibilityType, owner *int64, orgs ...int64) *domain.PriceRecord {
	p := current(nil, nil)
	p.PriceType = pt
	p.VisibilityType = vt
	p.OrganizationID = owner
	if orgs != nil {
		p.VisibleOrgs = orgs
	}
	return p
}

func TestVisibilityFilter(t *testing.T) {
	publicExternal := visibilityFixture(domain.PriceExternal, domain.VisibleToAll, nil)
	publicInternal := visibilityFixture(domain.PriceInternal, domain.VisibleToAll, nil)
	listedTwelve := visibilityFixture(domain.PriceExternal, domain.VisibleToListed, id64(9), 12)
	listedOneAndTwelve := visibilityFixture(domain.PriceExternal, domain.VisibleToListed, id64(9), 1, 12)
	ownedByOne := visibilityFixture(domain.PriceExternal, domain.VisibleToOwnerOnly, id64(1))
	ownedByTwo := visibilityFixture(domain.PriceExternal, domain.VisibleToOwnerOnly, id64(2))

	superAdmin := staff(5, domain.PermPriceViewExternal)
	superAdmin.Roles = []string{domain.RoleSuperAdmin}

	tests := []struct {
		name     string
		identity *domain.Identity
		price    *domain.PriceRecord
		want     bool
	}{
		{"anonymous sees public external", nil, publicExternal, true},
		{"anonymous never sees internal", nil, publicInternal, false},
		{"anonymous never sees listed", nil, listedOneAndTwelve, false},
		{"anonymous user type behaves like nil", &domain.Identity{UserType: domain.UserAnonymous, Permissions: []string{domain.PermPriceView}}, publicInternal, false},

		{"no permissions sees nothing", staff(1), publicExternal, false},
		{"external permission hides internal", staff(1, domain.PermPriceViewExternal), publicInternal, false},
		{"internal permission hides external", staff(1, domain.PermPriceViewInternal), publicExternal, false},
		{"internal permission shows internal", staff(1, domain.PermPriceViewInternal), publicInternal, true},
		{"view grants both types", staff(1, domain.PermPriceView), publicInternal, true},

		{"org 1 is not a substring match of 12", staff(1, domain.PermPriceView), listedTwelve, false},
		{"listed org is visible", staff(1, domain.PermPriceView), listedOneAndTwelve, true},
		{"owner sees owner-only price", staff(1, domain.PermPriceView), ownedByOne, true},
		{"other org does not see owner-only price", staff(1, domain.PermPriceView), ownedByTwo, false},
		{"identity without org sees only public", &domain.Identity{UserType: domain.UserExternal, Permissions: []string{domain.PermPriceView}}, ownedByOne, false},

		{"manage:org bypasses org scope", staff(3, domain.PermPriceView, domain.PermPriceManageOrg), ownedByTwo, true},
		{"admin role bypasses org scope", &domain.Identity{UserType: domain.UserInternal, Roles: []string{domain.RoleAdmin}, Permissions: []string{domain.PermPriceView}}, listedTwelve, true},
		{"super-admin still gated by price type", superAdmin, publicInternal, false},
		{"super-admin sees any org", superAdmin, ownedByTwo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Eval(VisibilityFilter(tt.identity), tt.price); got != tt.want {
				t.Errorf("visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibilityFilter_AnonymousShape(t *testing.T) {
	got := VisibilityFilter(nil)
	want := filter.AllOf(
		filter.Equal(domain.FieldPriceType, int64(domain.PriceExternal)),
		filter.Equal(domain.FieldVisibilityType, int64(domain.VisibleToAll)),
	)
	and, ok := got.(filter.And)
	if !ok || len(and.Terms) != 2 {
		t.Fatalf("expected a two-term conjunction, got %#v", got)
	}
	for i, term := range want.(filter.And).Terms {
		if and.Terms[i] != term {
			t.Errorf("term %d = %#v, want %#v", i, and.Terms[i], term)
		}
	}
}

func TestVisibilityFilter_NoPermissionsIsNever(t *testing.T) {
	if !filter.IsNever(VisibilityFilter(staff(1, "user:view"))) {
		t.Error("an identity without view permissions must match nothing")
	}
	if !filter.IsNever(VisibilityFilter(staff(1, domain.PermPriceManageOrg))) {
		t.Error("org management alone must not grant price visibility")
	}
}
