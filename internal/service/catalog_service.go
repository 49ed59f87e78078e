package service

import (
	"context"
	"errors"
	"fmt"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"
)

// CatalogService serves the public catalog: categories, active shops and
// product offers.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	ListShops(ctx context.Context) ([]*domain.Shop, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.ProductInfo, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	shops      repository.ShopRepository
	products   repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categories repository.CategoryRepository,
	shops repository.ShopRepository,
	products repository.ProductRepository,
) CatalogService {
	return &catalogService{
		categories: categories,
		shops:      shops,
		products:   products,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *catalogService) ListShops(ctx context.Context) ([]*domain.Shop, error) {
	return s.shops.ListActive(ctx)
}

// SearchProducts returns offers of active shops matching filter
func (s *catalogService) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.ProductInfo, error) {
	return s.products.Search(ctx, filter)
}
