package identity

import "strings"

// Role is the coarse-grained job function an actor holds
type Role string

const (
	RoleITAdmin      Role = "it_admin"
	RoleSalesManager Role = "sales_manager"
	RoleAccountant   Role = "accountant"
	RoleSalesAgent   Role = "sales_agent"
)

// ParseRole normalizes a raw role string
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	return r, r.IsValid()
}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleITAdmin, RoleSalesManager, RoleAccountant, RoleSalesAgent:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// roleDefaults lists the permissions every holder of a role receives.
var roleDefaults = map[Role][]Permission{
	RoleITAdmin: AllPermissions(),
	RoleSalesManager: {
		PermLoadRequest, PermLoadApprove, PermLoadRelease, PermLoadReject, PermLoadRead,
		PermLedgerRead, PermReconciliationRead, PermKPIRead, PermPresenceRead,
		PermSalesRecord,
	},
	RoleAccountant: {
		PermLoadRead, PermLedgerRead,
		PermReconciliationApprove, PermReconciliationDispute, PermReconciliationRead,
		PermKPIRead,
	},
	RoleSalesAgent: {
		PermLoadRequest, PermLoadRead, PermLedgerRead,
		PermReconciliationSubmit, PermReconciliationRead,
		PermSalesRecord, PermPresenceHeartbeat,
	},
}

// DefaultPermissions returns the default permissions of a role
func (r Role) DefaultPermissions() []Permission {
	perms := roleDefaults[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
