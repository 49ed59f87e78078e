package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partner-catalog/internal/middleware"
	"partner-catalog/internal/repository"
	"partner-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

var (
	errStorage      = errors.New("connection refused")
	errShopNotFound = repository.ErrShopNotFound
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler)
}

// newRouter mounts h the way the server does: catalog routes get optional
// authentication, everything else the mandatory one.
func newRouter(h routeRegistrar) http.Handler {
	r := chi.NewRouter()
	logger := zap.NewNop()
	tokens := service.NewUserService(nil, testSecret, time.Hour)
	if _, ok := h.(*CatalogHandler); ok {
		h.RegisterRoutes(r, middleware.OptionalAuthMiddleware(tokens, logger))
	} else {
		h.RegisterRoutes(r, middleware.AuthMiddleware(tokens, logger))
	}
	return r
}

func tokenFor(t *testing.T, userID uuid.UUID, role string, superuser bool) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id":      userID.String(),
		"role":         role,
		"is_superuser": superuser,
		"exp":          time.Now().Add(time.Hour).Unix(),
		"iat":          time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// do sends a request with an optional JSON body. body may be a string, which
// is sent verbatim, or any value, which is marshalled.
func do(t *testing.T, h http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Message
}
