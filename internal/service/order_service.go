package service

import (
	"context"
	"errors"
	"fmt"

	"partner-catalog/internal/database"
	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"

	"github.com/google/uuid"
)

// OrderService manages the caller's basket and submitted orders
type OrderService interface {
	Basket(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	AddToBasket(ctx context.Context, userID uuid.UUID, lines []domain.BasketLine) (int, error)
	UpdateBasket(ctx context.Context, userID uuid.UUID, updates []domain.BasketUpdate) (int, error)
	DeleteFromBasket(ctx context.Context, userID uuid.UUID, itemIDs []int64) (int64, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error
}

type orderService struct {
	orders   repository.OrderRepository
	contacts repository.ContactRepository
	tx       database.TxManager
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	contacts repository.ContactRepository,
	tx database.TxManager,
) OrderService {
	return &orderService{
		orders:   orders,
		contacts: contacts,
		tx:       tx,
	}
}

// Basket returns the caller's basket as a list holding zero or one order
func (s *orderService) Basket(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	basket, err := s.orders.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return []*domain.Order{}, nil
		}
		return nil, err
	}
	return []*domain.Order{basket}, nil
}

// AddToBasket adds every line to the caller's basket, creating the basket if
// needed. Either all lines are added or none.
func (s *orderService) AddToBasket(ctx context.Context, userID uuid.UUID, lines []domain.BasketLine) (int, error) {
	if len(lines) == 0 {
		return 0, ErrMissingArguments
	}

	created := 0
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		basket, err := s.orders.GetOrCreateBasket(ctx, userID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.orders.AddItem(ctx, basket.ID, line.ProductInfoID, line.Quantity); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// UpdateBasket changes quantities of the caller's basket lines and reports how
// many lines were found
func (s *orderService) UpdateBasket(ctx context.Context, userID uuid.UUID, updates []domain.BasketUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, ErrMissingArguments
	}

	updated := 0
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		basket, err := s.orders.GetOrCreateBasket(ctx, userID)
		if err != nil {
			return err
		}

		for _, u := range updates {
			err := s.orders.UpdateItem(ctx, basket.ID, u.ItemID, u.Quantity)
			if errors.Is(err, repository.ErrOrderItemNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

// DeleteFromBasket removes lines from the caller's basket
func (s *orderService) DeleteFromBasket(ctx context.Context, userID uuid.UUID, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, ErrMissingArguments
	}

	basket, err := s.orders.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return s.orders.DeleteItems(ctx, basket.ID, itemIDs)
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Submit places the caller's basket orderID for delivery to contactID
func (s *orderService) Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error {
	if orderID == 0 || contactID == 0 {
		return ErrMissingArguments
	}

	return s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.contacts.FindByID(ctx, userID, contactID); err != nil {
			return err
		}

		basket, err := s.orders.FindBasket(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return ErrBasketNotFound
			}
			return err
		}

		if basket.ID != orderID {
			return ErrBasketNotFound
		}
		if len(basket.Items) == 0 {
			return ErrEmptyBasket
		}

		if err := s.orders.Submit(ctx, userID, orderID, contactID); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return ErrBasketNotFound
			}
			return fmt.Errorf("failed to submit order: %w", err)
		}
		return nil
	})
}
