package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/auth"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ActorKey      = "actor"
	ClaimsKey     = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator resolves a bearer token into an actor
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Actor, *auth.Claims, error)
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	Authenticator Authenticator
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// Auth creates bearer token authentication middleware. On success the
// resolved actor is stored in the gin context and the actor ID is added
// to the request logger.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, cfg, shared.CodeUnauthorized, "Missing authorization header", nil)
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, cfg, shared.CodeUnauthorized, "Invalid authorization header format", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, cfg, shared.CodeUnauthorized, "Missing token", nil)
			return
		}

		actor, claims, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.CodeUnauthorized {
				abortUnauthorized(c, cfg, domainErr.Code, domainErr.Message, err)
				return
			}
			cfg.Logger.Error("Failed to resolve actor", zap.Error(err))
			c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeInternal), dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c),
			))
			return
		}

		c.Set(ActorKey, actor)
		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithActorID(c.Request.Context(), actor.ID.String()))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, code, message string, err error) {
	cfg.Logger.Warn("Authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", message),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetActor returns the authenticated actor. The zero Actor is returned
// for unauthenticated requests and fails every permission check.
func GetActor(c *gin.Context) identity.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(identity.Actor); ok {
			return actor
		}
	}
	return identity.Actor{}
}

// GetClaims returns the verified token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
