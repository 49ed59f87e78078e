package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partner-catalog/internal/database"
	"partner-catalog/internal/domain"
)

var (
	ErrCategoryAlreadyExists = errors.New("category with this id already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a category with its externally assigned id
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`,
		category.ID, category.Name,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_pkey") {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// List retrieves all categories
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
