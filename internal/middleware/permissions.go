package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Messages returned when a permission check fails.
const (
	MsgShopOnly     = "Страница доступна только для партнёров"
	MsgNoWriteRight = "Нет прав на внесение изменений"
)

const RoleShop = "shop"

// IsShop reports whether p is a supplier account
func IsShop(p *Principal) bool {
	return p != nil && p.Role == RoleShop
}

// IsAdminOrReadOnly reports whether a request with method may proceed: safe
// methods always, anything else only for superusers.
func IsAdminOrReadOnly(method string, p *Principal) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return p != nil && p.IsSuperuser
}

// RequireShop rejects callers that are not suppliers. It must run after
// AuthMiddleware.
func RequireShop(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !IsShop(p) {
				logger.Warn("Non-supplier attempted to access partner endpoint",
					zap.String("user_id", p.UserID.String()),
					zap.String("role", p.Role),
				)
				RespondWithError(w, http.StatusForbidden, MsgShopOnly)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOrReadOnly lets safe methods through and restricts writes to
// superusers. It expects OptionalAuthMiddleware to run first.
func AdminOrReadOnly(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := GetPrincipal(r.Context())

			if !IsAdminOrReadOnly(r.Method, p) {
				logger.Warn("Write attempt without superuser rights",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, MsgNoWriteRight)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
