package service

import (
	"context"
	"fmt"

	"partner-catalog/internal/domain"
	"partner-catalog/internal/repository"

	"github.com/google/uuid"
)

// ContactService manages the delivery contacts of a user
type ContactService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}

type contactService struct {
	contacts repository.ContactRepository
}

// NewContactService creates a new instance of ContactService
func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error) {
	return s.contacts.ListByUser(ctx, userID)
}

func (s *contactService) Create(ctx context.Context, contact *domain.Contact) error {
	if err := s.contacts.Create(ctx, contact); err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}
	return nil
}

// Delete removes the listed contacts owned by userID
func (s *contactService) Delete(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrMissingArguments
	}
	return s.contacts.Delete(ctx, userID, ids)
}
