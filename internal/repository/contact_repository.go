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

var ErrContactNotFound = errors.New("contact not found")

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error)
	FindByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error)
	Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, user_id, city, street, house, structure, building, apartment, phone`

func (r *contactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (user_id, city, street, house, structure, building, apartment, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query,
		c.UserID, c.City, c.Street, c.House, c.Structure, c.Building, c.Apartment, c.Phone,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *contactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY id`

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// FindByID returns the contact only if it belongs to userID
func (r *contactRepository) FindByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	c, err := scanContact(database.Conn(ctx, r.db).QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return c, nil
}

// Delete removes the listed contacts of userID and reports how many went
func (r *contactRepository) Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM contacts WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.City, &c.Street, &c.House, &c.Structure, &c.Building, &c.Apartment, &c.Phone)
	if err != nil {
		return nil, err
	}
	return c, nil
}
