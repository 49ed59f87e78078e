package transport

import (
	"net/http"
	"strconv"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/middleware"
	"partner-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents a category created by a superuser
type CategoryRequest struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,max=40"`
}

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the catalog routes. Reads are public; writes need a
// superuser, identified through optionalAuth.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Use(middleware.AdminOrReadOnly(h.logger))
		r.HandleFunc("/categories/", h.Categories)
		r.HandleFunc("/shops/", h.Shops)
	})
	r.Get("/products/", h.Products)
}

// Categories lists categories and lets superusers create them
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.listCategories(w, r)
	case http.MethodPost:
		h.createCategory(w, r)
	default:
		middleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to list categories", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if err := h.catalogService.CreateCategory(r.Context(), &domain.Category{ID: req.ID, Name: req.Name}); err != nil {
		respondServiceError(w, r, h.logger, "Failed to create category", err)
		return
	}
	middleware.RespondWithSuccess(w)
}

// Shops lists the shops that accept orders
func (h *CatalogHandler) Shops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		middleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	shops, err := h.catalogService.ListShops(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to list shops", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, shops)
}

// Products searches offers of active shops, optionally by shop_id and
// category_id
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProductFilter
	var err error

	if filter.ShopID, err = queryInt(r, "shop_id"); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "shop_id must be an integer")
		return
	}
	if filter.CategoryID, err = queryInt(r, "category_id"); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "category_id must be an integer")
		return
	}

	products, err := h.catalogService.SearchProducts(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to search products", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
