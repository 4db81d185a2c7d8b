// Package repotest provides an in-memory implementation of the repository
// interfaces for tests. It enforces the same ownership filters and unique
// keys as the MySQL schema and reports violations with the same gorm errors.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"addressbook/internal/model"
	"addressbook/internal/repository"
)

// Store holds users and contacts in memory. Transactions are not isolated.
type Store struct {
	mu            sync.Mutex
	users         map[uint]model.User
	contacts      map[uint]model.Contact
	nextUserID    uint
	nextContactID uint
	// ContactQueries counts contact repository calls, for asserting that a request never reached storage.
	ContactQueries int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[uint]model.User),
		contacts: make(map[uint]model.Contact),
	}
}

// Users returns the store's UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Contacts returns the store's ContactRepository.
func (s *Store) Contacts() repository.ContactRepository { return contactRepo{s} }

type userRepo struct{ s *Store }

var _ repository.UserRepository = userRepo{}

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.nextUserID++
	now := time.Now()
	user.ID, user.CreatedAt, user.UpdatedAt = r.s.nextUserID, now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r userRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r userRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, users repository.UserRepository, contacts repository.ContactRepository) error) error {
	return fn(ctx, r, contactRepo{r.s})
}

type contactRepo struct{ s *Store }

var _ repository.ContactRepository = contactRepo{}

// collides reports whether c clashes with another contact of the same owner. Caller holds mu.
func (r contactRepo) collides(c model.Contact) bool {
	for id, other := range r.s.contacts {
		if id == c.ID || other.OwnerID != c.OwnerID {
			continue
		}
		if other.Email == c.Email || other.Phone == c.Phone {
			return true
		}
	}
	return false
}

func (r contactRepo) Create(_ context.Context, contact *model.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ContactQueries++
	if r.collides(*contact) {
		return gorm.ErrDuplicatedKey
	}
	r.s.nextContactID++
	now := time.Now()
	contact.ID, contact.CreatedAt, contact.UpdatedAt = r.s.nextContactID, now, now
	r.s.contacts[contact.ID] = *contact
	return nil
}

func (r contactRepo) CreateBatch(ctx context.Context, contacts []model.Contact) error {
	for i := range contacts {
		if err := r.Create(ctx, &contacts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r contactRepo) ListByOwner(_ context.Context, ownerID uint, offset, limit int) ([]model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ContactQueries++
	out := make([]model.Contact, 0)
	for _, c := range r.s.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []model.Contact{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r contactRepo) FindOwned(_ context.Context, ownerID, id uint) (*model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ContactQueries++
	c, ok := r.s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r contactRepo) UpdateOwned(_ context.Context, ownerID, id uint, patch model.ContactPatch) (*model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ContactQueries++
	c, ok := r.s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.IsEmpty() {
		return &c, nil
	}
	patch.Apply(&c)
	if r.collides(c) {
		return nil, gorm.ErrDuplicatedKey
	}
	c.UpdatedAt = time.Now()
	r.s.contacts[id] = c
	return &c, nil
}

func (r contactRepo) DeleteOwned(_ context.Context, ownerID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ContactQueries++
	c, ok := r.s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.contacts, id)
	return nil
}
