package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partner-catalog/internal/database"
	"partner-catalog/internal/domain"

	"github.com/google/uuid"
)

var ErrShopNotFound = errors.New("shop not found")

// ShopRepository defines the interface for shop data access
type ShopRepository interface {
	ListActive(ctx context.Context) ([]*domain.Shop, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Shop, error)
	UpdateState(ctx context.Context, userID uuid.UUID, state bool) error
}

type shopRepository struct {
	db *sql.DB
}

// NewShopRepository creates a new instance of ShopRepository
func NewShopRepository(db *sql.DB) ShopRepository {
	return &shopRepository{db: db}
}

// ListActive returns the shops currently accepting orders
func (r *shopRepository) ListActive(ctx context.Context) ([]*domain.Shop, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, url, user_id, state FROM shops WHERE state = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	shops := []*domain.Shop{}
	for rows.Next() {
		shop := &domain.Shop{}
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.URL, &shop.UserID, &shop.State); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shops: %w", err)
	}

	return shops, nil
}

// FindByUser returns the shop owned by userID
func (r *shopRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Shop, error) {
	shop := &domain.Shop{}
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, url, user_id, state FROM shops WHERE user_id = $1`, userID,
	).Scan(&shop.ID, &shop.Name, &shop.URL, &shop.UserID, &shop.State)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}

	return shop, nil
}

// UpdateState sets the active flag of the shop owned by userID
func (r *shopRepository) UpdateState(ctx context.Context, userID uuid.UUID, state bool) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE shops SET state = $2 WHERE user_id = $1`, userID, state)
	if err != nil {
		return fmt.Errorf("failed to update shop state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrShopNotFound
	}

	return nil
}
