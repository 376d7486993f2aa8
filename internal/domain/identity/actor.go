package identity

import (
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is an authenticated caller together with its resolved permissions.
// It is built once per request and handed to application services.
type Actor struct {
	ID          uuid.UUID
	Roles       []Role
	Permissions PermissionSet
}

// NewActor resolves the permission set for the given roles and overrides
func NewActor(id uuid.UUID, roles []Role, overrides []Permission) Actor {
	return Actor{
		ID:          id,
		Roles:       roles,
		Permissions: NewPermissionSet(roles, overrides),
	}
}

// Can reports whether the actor holds p
func (a Actor) Can(p Permission) bool {
	return a.Permissions.Has(p)
}

// HasRole reports whether the actor holds role r
func (a Actor) HasRole(r Role) bool {
	for _, role := range a.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Require returns PERMISSION_DENIED unless the actor holds p
func (a Actor) Require(p Permission) error {
	if a.ID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if !a.Can(p) {
		return shared.NewPermissionDeniedError("Missing permission " + string(p))
	}
	return nil
}

// IsSelfOrCan allows an actor to act on its own records, or on anyone's
// records when it holds p.
func (a Actor) IsSelfOrCan(subjectID uuid.UUID, p Permission) bool {
	return a.ID == subjectID || a.Can(p)
}

// RequireFor authorizes p on the records of subjectID. An actor whose only
// role is sales_agent is confined to its own records.
func (a Actor) RequireFor(subjectID uuid.UUID, p Permission) error {
	if err := a.Require(p); err != nil {
		return err
	}
	if a.ID != subjectID && a.SelfScoped() {
		return shared.NewPermissionDeniedError("Agents may only access their own records")
	}
	return nil
}

// SelfScoped reports whether the actor holds no role beyond sales_agent
func (a Actor) SelfScoped() bool {
	if len(a.Roles) == 0 {
		return true
	}
	for _, r := range a.Roles {
		if r != RoleSalesAgent {
			return false
		}
	}
	return true
}
