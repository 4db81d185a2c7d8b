package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "addressbook/internal/errors"
	"addressbook/internal/model"
	"addressbook/internal/repository"
)

const (
	// DefaultPageSize is used when a caller does not ask for a limit.
	DefaultPageSize = 100
	// MaxPageSize caps the number of contacts returned per page.
	MaxPageSize = 100
)

// ContactService exposes contact operations scoped to one owner.
type ContactService interface {
	Create(ctx context.Context, ownerID uint, contact *model.Contact) (*model.Contact, error)
	List(ctx context.Context, ownerID uint, offset, limit int) ([]model.Contact, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Contact, error)
	Update(ctx context.Context, ownerID, id uint, patch model.ContactPatch) (*model.Contact, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

// Create stores contact under ownerID, ignoring any id or owner the caller set.
func (s *contactService) Create(ctx context.Context, ownerID uint, contact *model.Contact) (*model.Contact, error) {
	contact.ID = 0
	contact.OwnerID = ownerID
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, storeError("create contact", err)
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, ownerID uint, offset, limit int) ([]model.Contact, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", apperrors.ErrMalformed)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrMalformed)
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	contacts, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, storeError("list contacts", err)
	}
	return contacts, nil
}

func (s *contactService) Get(ctx context.Context, ownerID, id uint) (*model.Contact, error) {
	contact, err := s.repo.FindOwned(ctx, ownerID, id)
	if err != nil {
		return nil, storeError("get contact", err)
	}
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, ownerID, id uint, patch model.ContactPatch) (*model.Contact, error) {
	contact, err := s.repo.UpdateOwned(ctx, ownerID, id, patch)
	if err != nil {
		return nil, storeError("update contact", err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.repo.DeleteOwned(ctx, ownerID, id); err != nil {
		return storeError("delete contact", err)
	}
	return nil
}

// storeError turns storage errors into domain errors; anything unexpected is wrapped.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
