package transport

import (
	"net/http"
	"testing"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"
	"partner-catalog/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "ValidPass123",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Company:   "Acme",
		Position:  "Buyer",
	}
}

func TestRegister(t *testing.T) {
	users := &stubUserService{}
	router := newRouter(NewUserHandler(users, newStubContactService(), zap.NewNop()))

	w := do(t, router, http.MethodPost, "/user/register/", "", validRegistration())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeResult(t, w)["Status"])
	require.Len(t, users.registered, 1)
	assert.Equal(t, domain.UserType(""), users.registered[0].Type)
}

func TestRegisterDuplicateEmailIsSoftFailure(t *testing.T) {
	users := &stubUserService{
		registerFn: func(in service.RegisterInput) (*domain.User, error) {
			return nil, repository.ErrUserAlreadyExists
		},
	}
	router := newRouter(NewUserHandler(users, newStubContactService(), zap.NewNop()))

	w := do(t, router, http.MethodPost, "/user/register/", "", validRegistration())

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResult(t, w)
	assert.Equal(t, false, body["Status"])
	assert.Equal(t, repository.ErrUserAlreadyExists.Error(), body["Errors"])
}

func TestRegisterRejections(t *testing.T) {
	router := newRouter(NewUserHandler(&stubUserService{}, newStubContactService(), zap.NewNop()))

	t.Run("missing fields", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/user/register/", "", map[string]string{"email": "buyer@example.com"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeResult(t, w)
		assert.Equal(t, false, body["Status"])
		assert.Equal(t, service.ErrMissingArguments.Error(), body["Errors"])
	})

	t.Run("empty body", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/user/register/", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, service.ErrMissingArguments.Error(), decodeResult(t, w)["Errors"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/user/register/", "", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", errorMessage(t, w))
	})

	t.Run("short password", func(t *testing.T) {
		req := validRegistration()
		req.Password = "short"

		w := do(t, router, http.MethodPost, "/user/register/", "", req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation failed", errorMessage(t, w))
	})
}

func TestProperty_UnknownUserTypesAreRejected(t *testing.T) {
	router := newRouter(NewUserHandler(&stubUserService{}, newStubContactService(), zap.NewNop()))

	properties := gopter.NewProperties(nil)

	properties.Property("type outside shop/buyer yields a validation error", prop.ForAll(
		func(userType string) bool {
			req := validRegistration()
			req.Type = userType

			w := do(t, router, http.MethodPost, "/user/register/", "", req)
			return w.Code == http.StatusBadRequest
		},
		gen.AlphaString().SuchThat(func(s string) bool {
			return s != "" && s != "shop" && s != "buyer"
		}),
	))

	properties.TestingRun(t)
}

func TestLogin(t *testing.T) {
	users := &stubUserService{
		loginFn: func(email, password string) (string, *domain.User, error) {
			if email == "shop@example.com" && password == "ValidPass123" {
				return "signed-token", &domain.User{ID: uuid.New(), Email: email}, nil
			}
			return "", nil, service.ErrInvalidCredentials
		},
	}
	router := newRouter(NewUserHandler(users, newStubContactService(), zap.NewNop()))

	t.Run("valid credentials", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/user/login/", "",
			LoginRequest{Email: "shop@example.com", Password: "ValidPass123"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeResult(t, w)
		assert.Equal(t, true, body["Status"])
		assert.Equal(t, "signed-token", body["Token"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/user/login/", "",
			LoginRequest{Email: "shop@example.com", Password: "wrong"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeResult(t, w)
		assert.Equal(t, false, body["Status"])
		assert.Equal(t, service.ErrInvalidCredentials.Error(), body["Errors"])
	})
}

func TestDetails(t *testing.T) {
	userID := uuid.New()
	users := &stubUserService{users: map[uuid.UUID]*domain.User{
		userID: {ID: userID, Email: "buyer@example.com", Type: domain.UserTypeBuyer, IsActive: true},
	}}
	router := newRouter(NewUserHandler(users, newStubContactService(), zap.NewNop()))

	t.Run("anonymous", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/user/details", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/user/details", tokenFor(t, userID, "buyer", false), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeResult(t, w)
		assert.Equal(t, "buyer@example.com", body["email"])
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("deleted account", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/user/details", tokenFor(t, uuid.New(), "buyer", false), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, repository.ErrUserNotFound.Error(), errorMessage(t, w))
	})

	t.Run("storage failure", func(t *testing.T) {
		router := newRouter(NewUserHandler(&stubUserService{getErr: errStorage}, newStubContactService(), zap.NewNop()))
		w := do(t, router, http.MethodGet, "/user/details", tokenFor(t, userID, "buyer", false), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", errorMessage(t, w))
	})
}

func TestContacts(t *testing.T) {
	userID := uuid.New()
	contacts := newStubContactService()
	router := newRouter(NewUserHandler(&stubUserService{}, contacts, zap.NewNop()))
	token := tokenFor(t, userID, "buyer", false)

	w := do(t, router, http.MethodPost, "/user/contact", token, ContactRequest{
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
		Phone:  "+79990000000",
	})
	assert.Equal(t, true, decodeResult(t, w)["Status"])
	require.Len(t, contacts.contacts[userID], 1)
	assert.Equal(t, userID, contacts.contacts[userID][0].UserID)

	w = do(t, router, http.MethodPost, "/user/contact", token, map[string]string{"city": "Moscow"})
	assert.Equal(t, service.ErrMissingArguments.Error(), decodeResult(t, w)["Errors"])

	w = do(t, router, http.MethodGet, "/user/contact", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"city":"Moscow"`)

	w = do(t, router, http.MethodDelete, "/user/contact", token, map[string][]int64{"items": {1, 2}})
	body := decodeResult(t, w)
	assert.Equal(t, true, body["Status"])
	assert.Equal(t, float64(2), body["Deleted"])
	assert.Equal(t, []int64{1, 2}, contacts.deleted)
}
