package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shop is a supplier's storefront. Only shops with State set are visible to
// customers.
type Shop struct {
	ID     int64     `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	URL    string    `json:"url,omitempty" db:"url"`
	UserID uuid.UUID `json:"-" db:"user_id"`
	State  bool      `json:"state" db:"state"`
}

// Category ids are assigned by suppliers in their price lists.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Product struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CategoryID int64     `json:"-" db:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

// ProductInfo is a shop-specific offer of a product.
type ProductInfo struct {
	ID         int64              `json:"id" db:"id"`
	ExternalID int64              `json:"external_id" db:"external_id"`
	Model      string             `json:"model" db:"model"`
	Price      decimal.Decimal    `json:"price" db:"price"`
	PriceRRC   decimal.Decimal    `json:"price_rrc" db:"price_rrc"`
	Quantity   int                `json:"quantity" db:"quantity"`
	ShopID     int64              `json:"-" db:"shop_id"`
	ProductID  int64              `json:"-" db:"product_id"`
	Shop       *Shop              `json:"shop,omitempty"`
	Product    *Product           `json:"product,omitempty"`
	Parameters []ProductParameter `json:"product_parameters"`
}

type Parameter struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ProductParameter holds the value of one parameter for one offer.
type ProductParameter struct {
	ProductInfoID int64  `json:"-" db:"product_info_id"`
	ParameterID   int64  `json:"-" db:"parameter_id"`
	Parameter     string `json:"parameter"`
	Value         string `json:"value" db:"value"`
}

// ProductFilter narrows a product search. Nil fields are not applied.
type ProductFilter struct {
	ShopID     *int64
	CategoryID *int64
}
