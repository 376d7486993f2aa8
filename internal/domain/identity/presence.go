package identity

import (
	"time"

	"github.com/google/uuid"
)

// Presence is the last heartbeat an actor sent. An actor is online while
// its most recent heartbeat is younger than the TTL.
type Presence struct {
	ActorID    uuid.UUID     `json:"actor_id"`
	LastSeenAt time.Time     `json:"last_seen_at"`
	TTL        time.Duration `json:"-"`
}

// NewPresence records a heartbeat at the given instant
func NewPresence(actorID uuid.UUID, at time.Time, ttl time.Duration) Presence {
	return Presence{ActorID: actorID, LastSeenAt: at, TTL: ttl}
}

// IsOnline reports whether the heartbeat is still fresh at now
func (p Presence) IsOnline(now time.Time) bool {
	if p.LastSeenAt.IsZero() || p.TTL <= 0 {
		return false
	}
	return now.Sub(p.LastSeenAt) < p.TTL
}

// ExpiresAt returns when the presence lapses
func (p Presence) ExpiresAt() time.Time {
	return p.LastSeenAt.Add(p.TTL)
}
