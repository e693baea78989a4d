package domain

import "slices"

// Permission is a capability granted to an admin token.
type Permission string

const (
	// PermissionAccess allows viewing the dashboard.
	PermissionAccess Permission = "CMS_ACCESS_MAILGUN"
	// PermissionAdmin allows changing provider configuration in production.
	PermissionAdmin Permission = "ADMIN"
)

// Admin is the authenticated caller of the admin API.
type Admin struct {
	Subject     string       `json:"subject"`
	Permissions []Permission `json:"permissions"`
}

// Has reports whether the admin holds p. ADMIN implies every permission.
func (a Admin) Has(p Permission) bool {
	return slices.Contains(a.Permissions, p) || slices.Contains(a.Permissions, PermissionAdmin)
}

// CanConfigure reports whether the admin may change provider configuration.
// Outside production any dashboard user may.
func (a Admin) CanConfigure(production bool) bool {
	if slices.Contains(a.Permissions, PermissionAdmin) {
		return true
	}
	return !production && a.Has(PermissionAccess)
}
