package transport

import (
	"net/http"

	"partner-catalog/internal/middleware"
	"partner-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PriceListRequest addresses the price list to ingest
type PriceListRequest struct {
	URL string `json:"url" validate:"required"`
}

// StateRequest carries a truth value such as "on" or "false"
type StateRequest struct {
	State string `json:"state" validate:"required"`
}

// PartnerHandler serves supplier requests
type PartnerHandler struct {
	partnerService service.PartnerService
	logger         *zap.Logger
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService service.PartnerService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the supplier routes behind authMiddleware and the
// supplier check.
func (h *PartnerHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/partner", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireShop(h.logger))

		r.Post("/update/", h.UpdatePriceList)
		r.Get("/state/", h.GetState)
		r.Post("/state/", h.SetState)
		r.Get("/orders/", h.Orders)
	})
}

// UpdatePriceList replaces the caller's catalog with a price list
func (h *PartnerHandler) UpdatePriceList(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req PriceListRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if err := h.partnerService.UpdatePriceList(r.Context(), userID, req.URL); err != nil {
		respondServiceError(w, r, h.logger, "Price list update failed", err)
		return
	}
	middleware.RespondWithSuccess(w)
}

// GetState returns the caller's shop
func (h *PartnerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	shop, err := h.partnerService.GetShop(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to get shop", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, shop)
}

// SetState opens or closes the caller's shop for orders
func (h *PartnerHandler) SetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req StateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if err := h.partnerService.SetState(r.Context(), userID, req.State); err != nil {
		respondServiceError(w, r, h.logger, "Failed to set shop state", err)
		return
	}
	middleware.RespondWithSuccess(w)
}

// Orders lists the submitted orders containing the caller's goods
func (h *PartnerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	orders, err := h.partnerService.Orders(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to list partner orders", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
