package identity

import (
	"context"
	"errors"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccessService turns a bearer token into an Actor with its resolved
// permission set. Tokens only carry the actor ID; roles and grants are
// read from the access directory on every request.
type AccessService struct {
	verifier  TokenVerifier
	directory identity.AccessDirectory
	logger    *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(verifier TokenVerifier, directory identity.AccessDirectory, logger *zap.Logger) *AccessService {
	return &AccessService{
		verifier:  verifier,
		directory: directory,
		logger:    logger,
	}
}

// Authenticate verifies the token and resolves the caller
func (s *AccessService) Authenticate(ctx context.Context, token string) (identity.Actor, *auth.Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		msg := "Invalid or malformed token"
		if errors.Is(err, auth.ErrExpiredToken) {
			msg = "Token has expired"
		}
		return identity.Actor{}, nil, shared.NewDomainError(shared.CodeUnauthorized, msg)
	}

	actorID, err := claims.ActorID()
	if err != nil {
		return identity.Actor{}, nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid or malformed token")
	}

	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return identity.Actor{}, nil, err
	}
	return actor, claims, nil
}

// ResolveActor loads the actor's roles and per-user grants.
// An actor with neither is still authenticated but can do nothing.
func (s *AccessService) ResolveActor(ctx context.Context, actorID uuid.UUID) (identity.Actor, error) {
	roles, err := s.directory.RolesOf(ctx, actorID)
	if err != nil {
		s.logger.Error("Failed to load actor roles", zap.String("actor_id", actorID.String()), zap.Error(err))
		return identity.Actor{}, err
	}
	overrides, err := s.directory.OverridesOf(ctx, actorID)
	if err != nil {
		s.logger.Error("Failed to load permission overrides", zap.String("actor_id", actorID.String()), zap.Error(err))
		return identity.Actor{}, err
	}

	actor := identity.NewActor(actorID, roles, overrides)
	if actor.Permissions.Len() == 0 {
		s.logger.Warn("Actor has no permissions", zap.String("actor_id", actorID.String()))
	}
	return actor, nil
}
