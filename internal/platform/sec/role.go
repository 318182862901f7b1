// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage community content and moderate reported profiles
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether the role is one of the known enumerated values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// In reports whether the role is a member of the allowed set.
//
// Authorization gates are membership checks over an explicit allow-list,
// not a hierarchy comparison: a moderator-only endpoint does not admit admins
// unless RoleAdmin is listed.
func (r UserRole) In(allowed ...UserRole) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
