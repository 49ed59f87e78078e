package transport

import (
	"context"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"
	"partner-catalog/internal/service"

	"github.com/google/uuid"
)

type stubUserService struct {
	registered []service.RegisterInput
	registerFn func(in service.RegisterInput) (*domain.User, error)
	loginFn    func(email, password string) (string, *domain.User, error)
	users      map[uuid.UUID]*domain.User
	getErr     error
}

func (s *stubUserService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	s.registered = append(s.registered, in)
	if s.registerFn != nil {
		return s.registerFn(in)
	}
	return &domain.User{ID: uuid.New(), Email: in.Email, Type: in.Type}, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if s.loginFn != nil {
		return s.loginFn(email, password)
	}
	return "", nil, service.ErrInvalidCredentials
}

func (s *stubUserService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (s *stubUserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if user, ok := s.users[userID]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

type stubContactService struct {
	contacts map[uuid.UUID][]*domain.Contact
	deleted  []int64
}

func newStubContactService() *stubContactService {
	return &stubContactService{contacts: make(map[uuid.UUID][]*domain.Contact)}
}

func (s *stubContactService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error) {
	return append([]*domain.Contact{}, s.contacts[userID]...), nil
}

func (s *stubContactService) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = int64(len(s.contacts[contact.UserID]) + 1)
	s.contacts[contact.UserID] = append(s.contacts[contact.UserID], contact)
	return nil
}

func (s *stubContactService) Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	s.deleted = append(s.deleted, ids...)
	return int64(len(ids)), nil
}

type stubCatalogService struct {
	categories []*domain.Category
	shops      []*domain.Shop
	filters    []domain.ProductFilter
	createErr  error
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories, nil
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.categories = append(s.categories, category)
	return nil
}

func (s *stubCatalogService) ListShops(ctx context.Context) ([]*domain.Shop, error) {
	return s.shops, nil
}

func (s *stubCatalogService) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.ProductInfo, error) {
	s.filters = append(s.filters, filter)
	return []*domain.ProductInfo{}, nil
}

type stubPartnerService struct {
	updateErr error
	urls      []string
	shop      *domain.Shop
	states    []string
	orders    []*domain.Order
}

func (s *stubPartnerService) UpdatePriceList(ctx context.Context, userID uuid.UUID, url string) error {
	s.urls = append(s.urls, url)
	return s.updateErr
}

func (s *stubPartnerService) GetShop(ctx context.Context, userID uuid.UUID) (*domain.Shop, error) {
	if s.shop == nil {
		return nil, errShopNotFound
	}
	return s.shop, nil
}

func (s *stubPartnerService) SetState(ctx context.Context, userID uuid.UUID, state string) error {
	if _, err := service.ParseTruth(state); err != nil {
		return err
	}
	s.states = append(s.states, state)
	return nil
}

func (s *stubPartnerService) Orders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders, nil
}

type stubOrderService struct {
	lines     []domain.BasketLine
	updates   []domain.BasketUpdate
	submitErr error
	submitted []int64
}

func (s *stubOrderService) Basket(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func (s *stubOrderService) AddToBasket(ctx context.Context, userID uuid.UUID, lines []domain.BasketLine) (int, error) {
	s.lines = append(s.lines, lines...)
	return len(lines), nil
}

func (s *stubOrderService) UpdateBasket(ctx context.Context, userID uuid.UUID, updates []domain.BasketUpdate) (int, error) {
	s.updates = append(s.updates, updates...)
	return len(updates), nil
}

func (s *stubOrderService) DeleteFromBasket(ctx context.Context, userID uuid.UUID, itemIDs []int64) (int64, error) {
	return int64(len(itemIDs)), nil
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func (s *stubOrderService) Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, orderID)
	return nil
}
