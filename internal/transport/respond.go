package transport

import (
	"errors"
	"io"
	"net/http"

	"partner-catalog/internal/logger"
	"partner-catalog/internal/middleware"
	"partner-catalog/internal/pricelist"
	"partner-catalog/internal/repository"
	"partner-catalog/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// softErrors are reported as {"Status": false, "Errors": ...} with HTTP 200.
var softErrors = []error{
	service.ErrMissingArguments,
	service.ErrInvalidTruthValue,
	service.ErrInvalidCredentials,
	service.ErrInvalidUserType,
	service.ErrEmptyBasket,
	service.ErrBasketNotFound,
	pricelist.ErrInvalidDocument,
	repository.ErrShopNameTaken,
	repository.ErrDuplicateOffer,
	repository.ErrUnknownCategory,
	repository.ErrUserAlreadyExists,
	repository.ErrProductInfoNotFound,
	repository.ErrContactNotFound,
	repository.ErrCategoryAlreadyExists,
}

func isSoftError(err error) bool {
	for _, target := range softErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps a service error onto the response. Unclassified
// errors are logged and answered with 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	switch {
	case isSoftError(err):
		logger.FromContext(r.Context(), log).Debug(msg, zap.Error(err))
		middleware.RespondWithFailure(w, err.Error())
	case errors.Is(err, service.ErrIngestionInProgress):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrShopNotFound), errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		logger.FromContext(r.Context(), log).Error(msg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeRequest decodes and validates the JSON body into v. An empty body or
// a body that only lacks required fields is a soft failure; anything else
// unusable is a 400. It reports whether the handler may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, log *zap.Logger, v interface{}) bool {
	err := middleware.DecodeAndValidate(r, v)
	if err == nil {
		return true
	}

	logger.FromContext(r.Context(), log).Debug("Request rejected", zap.Error(err))
	if errors.Is(err, io.EOF) || onlyMissingFields(err) {
		middleware.RespondWithFailure(w, service.ErrMissingArguments.Error())
		return false
	}
	middleware.RespondWithDecodeError(w, err)
	return false
}

func onlyMissingFields(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() != "required" {
			return false
		}
	}
	return true
}

// principalID returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a missing principal is answered with 401.
func principalID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return p.UserID, true
}

// itemsRequest carries a list of ids to delete.
type itemsRequest struct {
	Items []int64 `json:"items" validate:"required,min=1,dive,gt=0"`
}

type deletedResponse struct {
	Status  bool  `json:"Status"`
	Deleted int64 `json:"Deleted"`
}
