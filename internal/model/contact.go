package model

import "time"

// Contact is an address-book entry. Email and phone are unique per owner.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:100;not null"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex:uq_owner_email,priority:2"`
	Phone     string    `json:"phone" gorm:"size:20;not null;uniqueIndex:uq_owner_phone,priority:2"`
	Address   string    `json:"address" gorm:"size:255;not null"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;uniqueIndex:uq_owner_email,priority:1;uniqueIndex:uq_owner_phone,priority:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactPatch carries the fields a caller supplied for a partial update.
// A nil field was not supplied and is left untouched.
type ContactPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
}

// IsEmpty reports whether no field was supplied.
func (p ContactPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}

// Apply merges the supplied fields into c.
func (p ContactPatch) Apply(c *Contact) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
}

// Changes returns the supplied fields keyed by column name.
func (p ContactPatch) Changes() map[string]any {
	changes := make(map[string]any, 5)
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if p.Address != nil {
		changes["address"] = *p.Address
	}
	return changes
}
