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

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Company   string `json:"company" validate:"max=40"`
	Position  string `json:"position" validate:"max=40"`
	Type      string `json:"type" validate:"omitempty,oneof=shop buyer"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token of a successful login
type LoginResponse struct {
	Status bool   `json:"Status"`
	Token  string `json:"Token"`
}

// ContactRequest represents a new delivery contact
type ContactRequest struct {
	City      string `json:"city" validate:"required,max=50"`
	Street    string `json:"street" validate:"required,max=100"`
	House     string `json:"house" validate:"max=15"`
	Structure string `json:"structure" validate:"max=15"`
	Building  string `json:"building" validate:"max=15"`
	Apartment string `json:"apartment" validate:"max=15"`
	Phone     string `json:"phone" validate:"required,max=20"`
}

// UserHandler handles account and contact requests
type UserHandler struct {
	userService    service.UserService
	contactService service.ContactService
	logger         *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, contactService service.ContactService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		contactService: contactService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the account routes. authMiddleware guards the
// routes that need a caller.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/register/", h.Register)
		r.Post("/login/", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/details", h.Details)
			r.Get("/contact", h.ListContacts)
			r.Post("/contact", h.CreateContact)
			r.Delete("/contact", h.DeleteContacts)
		})
	})
}

// Register handles account registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
		Type:      domain.UserType(req.Type),
	})
	if err != nil {
		respondServiceError(w, r, h.logger, "Registration failed", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("type", string(user.Type)),
	)
	middleware.RespondWithSuccess(w)
}

// Login exchanges credentials for an access token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, h.logger, "Login failed", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("User logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Status: true, Token: token})
}

// Details returns the caller's profile
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to get user profile", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// ListContacts returns the caller's contacts
func (h *UserHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to list contacts", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contacts)
}

// CreateContact adds a contact for the caller
func (h *UserHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	contact := &domain.Contact{
		UserID:    userID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}
	if err := h.contactService.Create(r.Context(), contact); err != nil {
		respondServiceError(w, r, h.logger, "Failed to create contact", err)
		return
	}

	middleware.RespondWithSuccess(w)
}

// DeleteContacts removes the listed contacts of the caller
func (h *UserHandler) DeleteContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req itemsRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	deleted, err := h.contactService.Delete(r.Context(), userID, req.Items)
	if err != nil {
		respondServiceError(w, r, h.logger, "Failed to delete contacts", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, deletedResponse{Status: true, Deleted: deleted})
}
