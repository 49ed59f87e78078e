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

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderRepository defines the interface for basket and order data access
type OrderRepository interface {
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	FindBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	AddItem(ctx context.Context, orderID, productInfoID int64, quantity int) error
	UpdateItem(ctx context.Context, orderID, itemID int64, quantity int) error
	DeleteItems(ctx context.Context, orderID int64, itemIDs []int64) (int64, error)
	Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListForShop(ctx context.Context, shopID int64) ([]*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, o.status, o.contact_id, o.created_at,
	       c.city, c.street, c.house, c.structure, c.building, c.apartment, c.phone
	FROM orders o
	LEFT JOIN contacts c ON c.id = o.contact_id
`

// GetOrCreateBasket returns the user's basket, creating an empty one if needed
func (r *orderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO orders (user_id, status)
		VALUES ($1, 'basket')
		ON CONFLICT (user_id) WHERE status = 'basket' DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create basket: %w", err)
	}

	return r.FindBasket(ctx, userID)
}

// FindBasket returns the user's basket with its items
func (r *orderRepository) FindBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, nil,
		orderSelect+` WHERE o.user_id = $1 AND o.status = 'basket'`, userID)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}

	return orders[0], nil
}

// AddItem adds quantity of an offer to an order, merging with an existing line
func (r *orderRepository) AddItem(ctx context.Context, orderID, productInfoID int64, quantity int) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_info_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, product_info_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
	`, orderID, productInfoID, quantity)
	if err != nil {
		if isForeignKeyViolation(err, "fk_order_items_product_info") {
			return ErrProductInfoNotFound
		}
		return fmt.Errorf("failed to add order item: %w", err)
	}

	return nil
}

// UpdateItem sets the quantity of one line of an order
func (r *orderRepository) UpdateItem(ctx context.Context, orderID, itemID int64, quantity int) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE order_items SET quantity = $3 WHERE order_id = $1 AND id = $2`,
		orderID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// DeleteItems removes lines of an order and reports how many were removed
func (r *orderRepository) DeleteItems(ctx context.Context, orderID int64, itemIDs []int64) (int64, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1 AND id = ANY($2)`, orderID, itemIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order items: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Submit turns the user's basket orderID into a new order delivered to contactID
func (r *orderRepository) Submit(ctx context.Context, userID uuid.UUID, orderID, contactID int64) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE orders
		SET status = 'new', contact_id = $3, created_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'basket'
	`, orderID, userID, contactID)
	if err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// ListByUser returns the user's submitted orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.queryOrders(ctx, nil, orderSelect+`
		WHERE o.user_id = $1 AND o.status <> 'basket'
		ORDER BY o.created_at DESC, o.id DESC
	`, userID)
}

// ListForShop returns submitted orders containing offers of shopID. Only that
// shop's lines are loaded, so totals cover the shop's share of each order.
func (r *orderRepository) ListForShop(ctx context.Context, shopID int64) ([]*domain.Order, error) {
	return r.queryOrders(ctx, &shopID, orderSelect+`
		WHERE o.status <> 'basket'
		  AND EXISTS (
			SELECT 1 FROM order_items oi
			JOIN product_infos pi ON pi.id = oi.product_info_id
			WHERE oi.order_id = o.id AND pi.shop_id = $1
		  )
		ORDER BY o.created_at DESC, o.id DESC
	`, shopID)
}

func (r *orderRepository) queryOrders(ctx context.Context, shopID *int64, query string, args ...interface{}) ([]*domain.Order, error) {
	conn := database.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := loadItems(ctx, conn, orders, shopID); err != nil {
		return nil, err
	}

	for _, order := range orders {
		order.TotalSum = order.Total()
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                                 domain.Order
		city, street, house                   sql.NullString
		structure, building, apartment, phone sql.NullString
	)

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.ContactID,
		&order.CreatedAt,
		&city, &street, &house, &structure, &building, &apartment, &phone,
	)
	if err != nil {
		return nil, err
	}

	if order.ContactID != nil {
		order.Contact = &domain.Contact{
			ID:        *order.ContactID,
			UserID:    order.UserID,
			City:      city.String,
			Street:    street.String,
			House:     house.String,
			Structure: structure.String,
			Building:  building.String,
			Apartment: apartment.String,
			Phone:     phone.String,
		}
	}
	order.Items = []domain.OrderItem{}

	return &order, nil
}

// loadItems attaches lines with their offers to orders. With shopID set only
// lines of that shop are attached.
func loadItems(ctx context.Context, conn database.DBTX, orders []*domain.Order, shopID *int64) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}

	query := `SELECT oi.id, oi.order_id, oi.quantity,` + offerColumns + `
		FROM order_items oi
		JOIN product_infos pi ON pi.id = oi.product_info_id` + offerJoins + `
		WHERE oi.order_id = ANY($1)`
	args := []interface{}{ids}

	if shopID != nil {
		query += ` AND pi.shop_id = $2`
		args = append(args, *shopID)
	}
	query += ` ORDER BY oi.id`

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	type line struct {
		orderID int64
		item    domain.OrderItem
	}

	lines := []line{}
	offers := []*domain.ProductInfo{}
	for rows.Next() {
		var l line
		offer, err := scanOffer(rows, &l.item.ID, &l.orderID, &l.item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		l.item.OrderID = l.orderID
		l.item.ProductInfoID = offer.ID
		l.item.ProductInfo = offer
		lines = append(lines, l)
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	if err := loadParameters(ctx, conn, offers); err != nil {
		return err
	}

	for _, l := range lines {
		order := byID[l.orderID]
		order.Items = append(order.Items, l.item)
	}

	return nil
}
