package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"partner-catalog/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller
type Principal struct {
	UserID      uuid.UUID
	Role        string
	IsSuperuser bool
}

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores the caller in the
// request context
func AuthMiddleware(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return authenticate(tokens, logger, false)
}

// OptionalAuthMiddleware authenticates requests that carry a token and lets
// anonymous requests through. Requests with a bad token are rejected.
func OptionalAuthMiddleware(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return authenticate(tokens, logger, true)
}

func authenticate(tokens TokenValidator, logger *zap.Logger, optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			principal := &Principal{
				UserID:      claims.UserID,
				Role:        claims.Role,
				IsSuperuser: claims.IsSuperuser,
			}

			logger.Debug("User authenticated",
				zap.String("user_id", principal.UserID.String()),
				zap.String("role", principal.Role),
			)

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the authenticated caller stored in ctx
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
