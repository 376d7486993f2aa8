package identity

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// PresenceResponse reports whether an actor is currently online
type PresenceResponse struct {
	ActorID    uuid.UUID  `json:"actor_id"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// PresenceService records agent heartbeats. An agent is online while its
// last heartbeat is younger than the configured TTL.
type PresenceService struct {
	store identity.PresenceStore
	ttl   time.Duration
	now   func() time.Time
}

// NewPresenceService creates a new PresenceService
func NewPresenceService(store identity.PresenceStore, ttl time.Duration) *PresenceService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &PresenceService{store: store, ttl: ttl, now: time.Now}
}

// Heartbeat marks the caller online for another TTL
func (s *PresenceService) Heartbeat(ctx context.Context, actor identity.Actor) (*PresenceResponse, error) {
	if err := actor.Require(identity.PermPresenceHeartbeat); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.store.Touch(ctx, actor.ID, at, s.ttl); err != nil {
		return nil, err
	}
	return toPresenceResponse(identity.NewPresence(actor.ID, at, s.ttl), true), nil
}

// Get reports the presence of an agent. Agents may look themselves up.
func (s *PresenceService) Get(ctx context.Context, actor identity.Actor, agentID uuid.UUID) (*PresenceResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if !actor.IsSelfOrCan(agentID, identity.PermPresenceRead) {
		return nil, shared.NewPermissionDeniedError("Missing permission " + string(identity.PermPresenceRead))
	}

	p, ok, err := s.store.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &PresenceResponse{ActorID: agentID}, nil
	}
	return toPresenceResponse(p, p.IsOnline(s.now())), nil
}

func toPresenceResponse(p identity.Presence, online bool) *PresenceResponse {
	seen := p.LastSeenAt
	expires := p.ExpiresAt()
	return &PresenceResponse{
		ActorID:    p.ActorID,
		Online:     online,
		LastSeenAt: &seen,
		ExpiresAt:  &expires,
	}
}
