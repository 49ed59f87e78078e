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
	ErrShopNameTaken   = errors.New("shop name is already used by another supplier")
	ErrDuplicateOffer  = errors.New("price list contains the same offer twice")
	ErrUnknownCategory = errors.New("product references an unknown category")
)

// PriceListRepository holds the writes performed by a price list ingestion.
// Every get-or-create converges on a single row under concurrent callers.
type PriceListRepository interface {
	UpsertShop(ctx context.Context, userID uuid.UUID, name string) (*domain.Shop, error)
	UpsertCategory(ctx context.Context, category *domain.Category) error
	AttachCategory(ctx context.Context, shopID, categoryID int64) error
	DeleteOffers(ctx context.Context, shopID int64) (int64, error)
	UpsertProduct(ctx context.Context, name string, categoryID int64) (int64, error)
	CreateOffer(ctx context.Context, offer *domain.ProductInfo) error
	UpsertParameter(ctx context.Context, name string) (int64, error)
	SetOfferParameter(ctx context.Context, productInfoID, parameterID int64, value string) error
}

type priceListRepository struct {
	db *sql.DB
}

// NewPriceListRepository creates a new instance of PriceListRepository
func NewPriceListRepository(db *sql.DB) PriceListRepository {
	return &priceListRepository{db: db}
}

// UpsertShop returns the shop owned by userID, creating it or renaming it to
// name.
func (r *priceListRepository) UpsertShop(ctx context.Context, userID uuid.UUID, name string) (*domain.Shop, error) {
	query := `
		INSERT INTO shops (name, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, url, user_id, state
	`

	shop := &domain.Shop{}
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, name, userID).
		Scan(&shop.ID, &shop.Name, &shop.URL, &shop.UserID, &shop.State)
	if err != nil {
		if isUniqueViolation(err, "shops_name_key") {
			return nil, ErrShopNameTaken
		}
		return nil, fmt.Errorf("failed to upsert shop: %w", err)
	}

	return shop, nil
}

// UpsertCategory creates the category with its supplier id or refreshes its name
func (r *priceListRepository) UpsertCategory(ctx context.Context, category *domain.Category) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// AttachCategory links a category to a shop; repeated calls are no-ops
func (r *priceListRepository) AttachCategory(ctx context.Context, shopID, categoryID int64) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO shop_categories (shop_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, shopID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to attach category to shop: %w", err)
	}

	return nil
}

// DeleteOffers removes all offers of a shop. Parameter values and order
// lines referencing them are removed by cascade.
func (r *priceListRepository) DeleteOffers(ctx context.Context, shopID int64) (int64, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM product_infos WHERE shop_id = $1`, shopID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product infos: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// UpsertProduct returns the id of the product with name in categoryID
func (r *priceListRepository) UpsertProduct(ctx context.Context, name string, categoryID int64) (int64, error) {
	var id int64
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO products (name, category_id)
		VALUES ($1, $2)
		ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, categoryID).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err, "fk_products_category") {
			return 0, ErrUnknownCategory
		}
		return 0, fmt.Errorf("failed to upsert product: %w", err)
	}

	return id, nil
}

// CreateOffer inserts a new product info row and sets its ID
func (r *priceListRepository) CreateOffer(ctx context.Context, offer *domain.ProductInfo) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO product_infos (external_id, model, price, price_rrc, quantity, shop_id, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		offer.ExternalID,
		offer.Model,
		offer.Price,
		offer.PriceRRC,
		offer.Quantity,
		offer.ShopID,
		offer.ProductID,
	).Scan(&offer.ID)
	if err != nil {
		if isUniqueViolation(err, "product_infos_unique_offer") {
			return ErrDuplicateOffer
		}
		return fmt.Errorf("failed to create product info: %w", err)
	}

	return nil
}

// UpsertParameter returns the id of the parameter called name
func (r *priceListRepository) UpsertParameter(ctx context.Context, name string) (int64, error) {
	var id int64
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO parameters (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert parameter: %w", err)
	}

	return id, nil
}

// SetOfferParameter stores the value of a parameter for an offer
func (r *priceListRepository) SetOfferParameter(ctx context.Context, productInfoID, parameterID int64, value string) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO product_parameters (product_info_id, parameter_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_info_id, parameter_id) DO UPDATE SET value = EXCLUDED.value
	`, productInfoID, parameterID, value)
	if err != nil {
		return fmt.Errorf("failed to set product parameter: %w", err)
	}

	return nil
}
