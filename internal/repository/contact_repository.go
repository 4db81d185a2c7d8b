package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"addressbook/internal/model"
)

// ContactRepository defines contact persistence operations. Every read and
// write other than Create filters on owner_id in the same statement.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	CreateBatch(ctx context.Context, contacts []model.Contact) error
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]model.Contact, error)
	FindOwned(ctx context.Context, ownerID, id uint) (*model.Contact, error)
	UpdateOwned(ctx context.Context, ownerID, id uint, patch model.ContactPatch) (*model.Contact, error)
	DeleteOwned(ctx context.Context, ownerID, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a contact. A per-owner uniqueness violation returns gorm.ErrDuplicatedKey.
func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// CreateBatch inserts several contacts in one statement.
func (r *contactRepository) CreateBatch(ctx context.Context, contacts []model.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(contacts, 100).Error
}

// ListByOwner returns one page of the owner's contacts ordered by id.
func (r *contactRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindOwned returns gorm.ErrRecordNotFound when the contact is absent or owned by someone else.
func (r *contactRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateOwned locks the owner's row, merges the supplied fields and writes only those columns.
func (r *contactRepository) UpdateOwned(ctx context.Context, ownerID, id uint, patch model.ContactPatch) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Where("owner_id = ?", ownerID).
			First(&contact).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}

		patch.Apply(&contact)
		return tx.Model(&contact).Updates(patch.Changes()).Error
	})
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteOwned removes the owner's contact. Zero affected rows is gorm.ErrRecordNotFound.
func (r *contactRepository) DeleteOwned(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Delete(&model.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
