package transport

import (
	"net/http"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/logger"
	"partner-catalog/internal/middleware"
	"partner-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BasketLineRequest is one offer to put into the basket. Quantity is a
// pointer so an absent value is told apart from zero.
type BasketLineRequest struct {
	ProductInfo int64 `json:"product_info" validate:"required,gt=0"`
	Quantity    *int  `json:"quantity" validate:"required,gt=0"`
}

// BasketAddRequest represents a basket addition
type BasketAddRequest struct {
	Items []BasketLineRequest `json:"items" validate:"required,min=1,dive"`
}

// BasketUpdateLineRequest sets the quantity of a basket line
type BasketUpdateLineRequest struct {
	ID       int64 `json:"id" validate:"required,gt=0"`
	Quantity *int  `json:"quantity" validate:"required,gt=0"`
}

// BasketUpdateRequest represents a basket quantity update
type BasketUpdateRequest struct {
	Items []BasketUpdateLineRequest `json:"items" validate:"required,min=1,dive"`
}

// SubmitOrderRequest places basket ID for delivery to Contact
type SubmitOrderRequest struct {
	ID      int64 `json:"id" validate:"required"`
	Contact int64 `json:"contact" validate:"required"`
}

type createdResponse struct {
	Status  bool `json:"Status"`
	Created int  `json:"Created"`
}

type updatedResponse struct {
	Status  bool `json:"Status"`
	Updated int  `json:"Updated"`
}

// OrderHandler serves basket and order requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes mounts the basket and order routes behind authMiddleware
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/basket/", h.GetBasket)
		r.Post("/basket/", h.AddToBasket)
		r.Put("/basket/", h.UpdateBasket)
		r.Delete("/basket/", h.DeleteFromBasket)

		r.Get("/order", h.ListOrders)
		r.Post("/order", h.SubmitOrder)
	})
}

// GetBasket returns the caller's basket
func (h *OrderHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	basket, err := h.orderService.Basket(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to get basket", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, basket)
}

// AddToBasket adds offers to the caller's basket
func (h *OrderHandler) AddToBasket(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req BasketAddRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	lines := make([]domain.BasketLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.BasketLine{ProductInfoID: item.ProductInfo, Quantity: *item.Quantity})
	}

	created, err := h.orderService.AddToBasket(r.Context(), userID, lines)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to add to basket", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, createdResponse{Status: true, Created: created})
}

// UpdateBasket changes quantities in the caller's basket
func (h *OrderHandler) UpdateBasket(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req BasketUpdateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	updates := make([]domain.BasketUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, domain.BasketUpdate{ItemID: item.ID, Quantity: *item.Quantity})
	}

	updated, err := h.orderService.UpdateBasket(r.Context(), userID, updates)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to update basket", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, updatedResponse{Status: true, Updated: updated})
}

// DeleteFromBasket removes lines from the caller's basket
func (h *OrderHandler) DeleteFromBasket(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req itemsRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	deleted, err := h.orderService.DeleteFromBasket(r.Context(), userID, req.Items)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to delete from basket", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, deletedResponse{Status: true, Deleted: deleted})
}

// ListOrders returns the caller's submitted orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to list orders", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// SubmitOrder places the caller's basket
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req SubmitOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if err := h.orderService.Submit(r.Context(), userID, req.ID, req.Contact); err != nil {
		respondServiceError(w, r, h.logger, "Failed to submit order", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("Order submitted",
		zap.Int64("order_id", req.ID),
		zap.Int64("contact_id", req.Contact),
	)
	middleware.RespondWithSuccess(w)
}
