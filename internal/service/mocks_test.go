package service

import (
	"context"
	"sync"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// noTx runs functions without a transaction
type noTx struct{}

func (noTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type productKey struct {
	name       string
	categoryID int64
}

// mockCatalog keeps shops, categories, products, offers and parameters in
// memory. It implements ShopRepository and PriceListRepository.
type mockCatalog struct {
	mu             sync.Mutex
	nextID         int64
	shops          map[uuid.UUID]*domain.Shop
	categories     map[int64]string
	shopCategories map[[2]int64]bool
	products       map[productKey]int64
	offers         map[int64]*domain.ProductInfo
	parameters     map[string]int64

	failCreateOffer error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		shops:          make(map[uuid.UUID]*domain.Shop),
		categories:     make(map[int64]string),
		shopCategories: make(map[[2]int64]bool),
		products:       make(map[productKey]int64),
		offers:         make(map[int64]*domain.ProductInfo),
		parameters:     make(map[string]int64),
	}
}

func (m *mockCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockCatalog) ListActive(ctx context.Context) ([]*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shops := []*domain.Shop{}
	for _, shop := range m.shops {
		if shop.State {
			shops = append(shops, shop)
		}
	}
	return shops, nil
}

func (m *mockCatalog) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shop, ok := m.shops[userID]
	if !ok {
		return nil, repository.ErrShopNotFound
	}
	return shop, nil
}

func (m *mockCatalog) UpdateState(ctx context.Context, userID uuid.UUID, state bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shop, ok := m.shops[userID]
	if !ok {
		return repository.ErrShopNotFound
	}
	shop.State = state
	return nil
}

func (m *mockCatalog) UpsertShop(ctx context.Context, userID uuid.UUID, name string) (*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for owner, shop := range m.shops {
		if shop.Name == name && owner != userID {
			return nil, repository.ErrShopNameTaken
		}
	}

	shop, ok := m.shops[userID]
	if !ok {
		shop = &domain.Shop{ID: m.id(), UserID: userID, State: true}
		m.shops[userID] = shop
	}
	shop.Name = name
	return shop, nil
}

func (m *mockCatalog) UpsertCategory(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories[category.ID] = category.Name
	return nil
}

func (m *mockCatalog) AttachCategory(ctx context.Context, shopID, categoryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shopCategories[[2]int64{shopID, categoryID}] = true
	return nil
}

func (m *mockCatalog) DeleteOffers(ctx context.Context, shopID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, offer := range m.offers {
		if offer.ShopID == shopID {
			delete(m.offers, id)
			n++
		}
	}
	return n, nil
}

func (m *mockCatalog) UpsertProduct(ctx context.Context, name string, categoryID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[categoryID]; !ok {
		return 0, repository.ErrUnknownCategory
	}

	key := productKey{name: name, categoryID: categoryID}
	if id, ok := m.products[key]; ok {
		return id, nil
	}
	id := m.id()
	m.products[key] = id
	return id, nil
}

func (m *mockCatalog) CreateOffer(ctx context.Context, offer *domain.ProductInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateOffer != nil {
		return m.failCreateOffer
	}

	for _, existing := range m.offers {
		if existing.ShopID == offer.ShopID && existing.ProductID == offer.ProductID && existing.ExternalID == offer.ExternalID {
			return repository.ErrDuplicateOffer
		}
	}

	offer.ID = m.id()
	stored := *offer
	stored.Parameters = []domain.ProductParameter{}
	m.offers[offer.ID] = &stored
	return nil
}

func (m *mockCatalog) UpsertParameter(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.parameters[name]; ok {
		return id, nil
	}
	id := m.id()
	m.parameters[name] = id
	return id, nil
}

func (m *mockCatalog) SetOfferParameter(ctx context.Context, productInfoID, parameterID int64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	offer := m.offers[productInfoID]
	for name, id := range m.parameters {
		if id == parameterID {
			offer.Parameters = append(offer.Parameters, domain.ProductParameter{
				ProductInfoID: productInfoID,
				ParameterID:   parameterID,
				Parameter:     name,
				Value:         value,
			})
		}
	}
	return nil
}

func (m *mockCatalog) shopOffers(shopID int64) []*domain.ProductInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	offers := []*domain.ProductInfo{}
	for _, offer := range m.offers {
		if offer.ShopID == shopID {
			offers = append(offers, offer)
		}
	}
	return offers
}

// mockOrderRepository keeps orders in memory. Known offers and their prices
// are registered through prices.
type mockOrderRepository struct {
	nextID int64
	orders map[int64]*domain.Order
	prices map[int64]decimal.Decimal
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[int64]*domain.Order),
		prices: make(map[int64]decimal.Decimal),
	}
}

func (m *mockOrderRepository) basketOf(userID uuid.UUID) *domain.Order {
	for _, order := range m.orders {
		if order.UserID == userID && order.Status == domain.OrderStatusBasket {
			return order
		}
	}
	return nil
}

func (m *mockOrderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	if basket := m.basketOf(userID); basket != nil {
		return basket, nil
	}
	m.nextID++
	basket := &domain.Order{ID: m.nextID, UserID: userID, Status: domain.OrderStatusBasket, Items: []domain.OrderItem{}}
	m.orders[basket.ID] = basket
	return basket, nil
}

func (m *mockOrderRepository) FindBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	basket := m.basketOf(userID)
	if basket == nil {
		return nil, repository.ErrOrderNotFound
	}
	return basket, nil
}

func (m *mockOrderRepository) AddItem(ctx context.Context, orderID, productInfoID int64, quantity int) error {
	price, ok := m.prices[productInfoID]
	if !ok {
		return repository.ErrProductInfoNotFound
	}

	order := m.orders[orderID]
	for i := range order.Items {
		if order.Items[i].ProductInfoID == productInfoID {
			order.Items[i].Quantity += quantity
			return nil
		}
	}

	m.nextID++
	order.Items = append(order.Items, domain.OrderItem{
		ID:            m.nextID,
		OrderID:       orderID,
		ProductInfoID: productInfoID,
		Quantity:      quantity,
		ProductInfo:   &domain.ProductInfo{ID: productInfoID, Price: price},
	})
	return nil
}

func (m *mockOrderRepository) UpdateItem(ctx context.Context, orderID, itemID int64, quantity int) error {
	order := m.orders[orderID]
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrOrderItemNotFound
}

func (m *mockOrderRepository) DeleteItems(ctx context.Context, orderID int64, itemIDs []int64) (int64, error) {
	order := m.orders[orderID]
	drop := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}

	var n int64
	kept := order.Items[:0]
	for _, item := range order.Items {
		if drop[item.ID] {
			n++
			continue
		}
		kept = append(kept, item)
	}
	order.Items = kept
	return n, nil
}

func (m *mockOrderRepository) Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error {
	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID || order.Status != domain.OrderStatusBasket {
		return repository.ErrOrderNotFound
	}
	order.Status = domain.OrderStatusNew
	order.ContactID = &contactID
	return nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.UserID == userID && order.Status != domain.OrderStatusBasket {
			order.TotalSum = order.Total()
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) ListForShop(ctx context.Context, shopID int64) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

type mockContactRepository struct {
	contacts map[int64]*domain.Contact
}

func newMockContactRepository(contacts ...*domain.Contact) *mockContactRepository {
	m := &mockContactRepository{contacts: make(map[int64]*domain.Contact)}
	for _, c := range contacts {
		m.contacts[c.ID] = c
	}
	return m
}

func (m *mockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = int64(len(m.contacts) + 1)
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockContactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error) {
	contacts := []*domain.Contact{}
	for _, c := range m.contacts {
		if c.UserID == userID {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func (m *mockContactRepository) FindByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error) {
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrContactNotFound
	}
	return c, nil
}

func (m *mockContactRepository) Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := m.contacts[id]; ok && c.UserID == userID {
			delete(m.contacts, id)
			n++
		}
	}
	return n, nil
}
