package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessDirectory resolves actor_id → roles and per-user permission grants.
// It is backed by the Identity & Access collaborator's tables.
type AccessDirectory interface {
	RolesOf(ctx context.Context, actorID uuid.UUID) ([]Role, error)
	OverridesOf(ctx context.Context, actorID uuid.UUID) ([]Permission, error)
}

// PresenceStore keeps heartbeat records that expire after their TTL
type PresenceStore interface {
	Touch(ctx context.Context, actorID uuid.UUID, at time.Time, ttl time.Duration) error
	// Get returns the last recorded heartbeat, or false when none is held.
	// A returned presence may already have lapsed; check IsOnline.
	Get(ctx context.Context, actorID uuid.UUID) (Presence, bool, error)
}
