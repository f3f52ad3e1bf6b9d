package domain

// UserType distinguishes staff, customers and unauthenticated callers.
type UserType int

const (
	UserInternal  UserType = 1
	UserExternal  UserType = 2
	UserAnonymous UserType = 3
)

// Permission codes understood by the pricing service.
const (
	PermPriceView         = "price:view"
	PermPriceViewExternal = "price:view:external"
	PermPriceViewInternal = "price:view:internal"
	PermPriceManageOrg    = "price:manage:org"
	PermPriceCreate       = "price:create"
	PermPriceUpdate       = "price:update"
	PermPriceDelete       = "price:delete"
	PermPriceExport       = "price:export"
	PermPriceImport       = "price:import"
)

// Role names issued by the identity provider.
const (
	RoleSuperAdmin = "超级管理员"
	RoleAdmin      = "管理员"
)

// Identity is the request-scoped view of the caller, rebuilt on every request
// from the bearer token. A nil *Identity means an anonymous caller.
type Identity struct {
	Subject        string   `json:"sub"`
	UserType       UserType `json:"userType"`
	OrganizationID *int64   `json:"organizationId"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
}

// HasPermission reports whether the identity carries any of the given codes.
func (i *Identity) HasPermission(codes ...string) bool {
	if i == nil {
		return false
	}
	for _, p := range i.Permissions {
		for _, c := range codes {
			if p == c {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the identity holds any of the given roles.
func (i *Identity) HasRole(roles ...string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		for _, want := range roles {
			if r == want {
				return true
			}
		}
	}
	return false
}

// IsPrivileged reports whether the identity bypasses organization visibility rules.
func (i *Identity) IsPrivileged() bool {
	return i.HasPermission(PermPriceManageOrg) || i.HasRole(RoleSuperAdmin, RoleAdmin)
}
