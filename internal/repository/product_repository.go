package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"partner-catalog/internal/database"
	"partner-catalog/internal/domain"
)

var (
	ErrProductInfoNotFound = errors.New("product info not found")
)

// ProductRepository reads product offers together with their product,
// category, shop and parameter values.
type ProductRepository interface {
	Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.ProductInfo, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const (
	offerColumns = `
	       pi.id, pi.external_id, pi.model, pi.price, pi.price_rrc, pi.quantity,
	       s.id, s.name, s.url, s.state,
	       p.id, p.name, c.id, c.name`

	offerJoins = `
	JOIN shops s ON s.id = pi.shop_id
	JOIN products p ON p.id = pi.product_id
	JOIN categories c ON c.id = p.category_id`

	offerSelect = `SELECT` + offerColumns + `
	FROM product_infos pi` + offerJoins
)

// Search returns offers of active shops, optionally narrowed by shop and
// category. Each offer appears once.
func (r *productRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]*domain.ProductInfo, error) {
	conditions := []string{"s.state = TRUE"}
	args := []interface{}{}

	if filter.ShopID != nil {
		args = append(args, *filter.ShopID)
		conditions = append(conditions, fmt.Sprintf("pi.shop_id = $%d", len(args)))
	}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	query := offerSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY pi.id"

	return r.queryOffers(ctx, query, args...)
}

func (r *productRepository) queryOffers(ctx context.Context, query string, args ...interface{}) ([]*domain.ProductInfo, error) {
	conn := database.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product infos: %w", err)
	}
	defer rows.Close()

	offers := []*domain.ProductInfo{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product info: %w", err)
		}
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product infos: %w", err)
	}

	if err := loadParameters(ctx, conn, offers); err != nil {
		return nil, err
	}

	return offers, nil
}

// scanOffer reads offerColumns; dest is scanned before them
func scanOffer(row rowScanner, dest ...any) (*domain.ProductInfo, error) {
	offer := &domain.ProductInfo{
		Shop:    &domain.Shop{},
		Product: &domain.Product{Category: &domain.Category{}},
	}

	err := row.Scan(append(dest,
		&offer.ID,
		&offer.ExternalID,
		&offer.Model,
		&offer.Price,
		&offer.PriceRRC,
		&offer.Quantity,
		&offer.Shop.ID,
		&offer.Shop.Name,
		&offer.Shop.URL,
		&offer.Shop.State,
		&offer.Product.ID,
		&offer.Product.Name,
		&offer.Product.Category.ID,
		&offer.Product.Category.Name,
	)...)
	if err != nil {
		return nil, err
	}

	offer.ShopID = offer.Shop.ID
	offer.ProductID = offer.Product.ID
	offer.Product.CategoryID = offer.Product.Category.ID
	offer.Parameters = []domain.ProductParameter{}

	return offer, nil
}

// loadParameters fills Parameters of every offer with one query
func loadParameters(ctx context.Context, conn database.DBTX, offers []*domain.ProductInfo) error {
	if len(offers) == 0 {
		return nil
	}

	byID := make(map[int64][]*domain.ProductInfo, len(offers))
	ids := make([]int64, 0, len(offers))
	for _, offer := range offers {
		if _, seen := byID[offer.ID]; !seen {
			ids = append(ids, offer.ID)
		}
		byID[offer.ID] = append(byID[offer.ID], offer)
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT pp.product_info_id, pp.parameter_id, pa.name, pp.value
		FROM product_parameters pp
		JOIN parameters pa ON pa.id = pp.parameter_id
		WHERE pp.product_info_id = ANY($1)
		ORDER BY pp.product_info_id, pa.name
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load product parameters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pp domain.ProductParameter
		if err := rows.Scan(&pp.ProductInfoID, &pp.ParameterID, &pp.Parameter, &pp.Value); err != nil {
			return fmt.Errorf("failed to scan product parameter: %w", err)
		}
		for _, offer := range byID[pp.ProductInfoID] {
			offer.Parameters = append(offer.Parameters, pp)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating product parameters: %w", err)
	}

	return nil
}
