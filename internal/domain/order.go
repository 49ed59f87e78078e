package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusBasket    OrderStatus = "basket"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Order is a customer's basket or a submitted order.
type Order struct {
	ID        int64           `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"-" db:"user_id"`
	Status    OrderStatus     `json:"status" db:"status"`
	ContactID *int64          `json:"-" db:"contact_id"`
	CreatedAt time.Time       `json:"dt" db:"created_at"`
	Items     []OrderItem     `json:"ordered_items"`
	Contact   *Contact        `json:"contact,omitempty"`
	TotalSum  decimal.Decimal `json:"total_sum"`
}

// OrderItem is one basket or order line.
type OrderItem struct {
	ID            int64        `json:"id" db:"id"`
	OrderID       int64        `json:"-" db:"order_id"`
	ProductInfoID int64        `json:"-" db:"product_info_id"`
	Quantity      int          `json:"quantity" db:"quantity"`
	ProductInfo   *ProductInfo `json:"product_info,omitempty"`
}

// Total returns the sum of quantity × price over the items that have their
// offer loaded.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.ProductInfo == nil {
			continue
		}
		total = total.Add(item.ProductInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// BasketLine is a requested addition to a basket.
type BasketLine struct {
	ProductInfoID int64
	Quantity      int
}

// BasketUpdate changes the quantity of an existing basket line.
type BasketUpdate struct {
	ItemID   int64
	Quantity int
}
