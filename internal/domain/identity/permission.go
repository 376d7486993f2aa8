package identity

import "sort"

// Permission is a functional permission in resource:action form
type Permission string

const (
	PermLoadRequest           Permission = "load:request"
	PermLoadApprove           Permission = "load:approve"
	PermLoadRelease           Permission = "load:release"
	PermLoadReject            Permission = "load:reject"
	PermLoadRead              Permission = "load:read"
	PermLedgerRead            Permission = "ledger:read"
	PermReconciliationSubmit  Permission = "reconciliation:submit"
	PermReconciliationApprove Permission = "reconciliation:approve"
	PermReconciliationDispute Permission = "reconciliation:dispute"
	PermReconciliationRead    Permission = "reconciliation:read"
	PermKPIRead               Permission = "kpi:read"
	PermSalesRecord           Permission = "sales:record"
	PermPresenceHeartbeat     Permission = "presence:heartbeat"
	PermPresenceRead          Permission = "presence:read"
)

// AllPermissions returns every permission known to the system
func AllPermissions() []Permission {
	return []Permission{
		PermLoadRequest, PermLoadApprove, PermLoadRelease, PermLoadReject, PermLoadRead,
		PermLedgerRead,
		PermReconciliationSubmit, PermReconciliationApprove, PermReconciliationDispute, PermReconciliationRead,
		PermKPIRead, PermSalesRecord, PermPresenceHeartbeat, PermPresenceRead,
	}
}

// IsValid checks if the permission is known
func (p Permission) IsValid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionSet is the effective permission set of an actor:
// the union of the defaults of its roles and its per-user grants.
type PermissionSet struct {
	perms map[Permission]struct{}
}

// NewPermissionSet resolves RoleDefaults ∪ UserOverrides.
// Unknown roles and unknown override codes contribute nothing.
func NewPermissionSet(roles []Role, overrides []Permission) PermissionSet {
	set := PermissionSet{perms: make(map[Permission]struct{})}
	for _, r := range roles {
		for _, p := range r.DefaultPermissions() {
			set.perms[p] = struct{}{}
		}
	}
	for _, p := range overrides {
		if p.IsValid() {
			set.perms[p] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set grants p
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s.perms[p]
	return ok
}

// HasAny reports whether the set grants at least one of perms
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// Len returns the number of granted permissions
func (s PermissionSet) Len() int {
	return len(s.perms)
}

// Codes returns the granted permissions sorted by code
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s.perms))
	for p := range s.perms {
		codes = append(codes, string(p))
	}
	sort.Strings(codes)
	return codes
}
