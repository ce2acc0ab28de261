package entity

import "time"

// Contact is the aggregate root for the agenda domain.
// ID is zero until a store assigns one and never changes afterwards.
type Contact struct {
	ID           int64
	Name         string
	Email        string
	PhoneNumber  string
	Observations string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsNew reports whether the contact has not been persisted yet.
func (c *Contact) IsNew() bool { return c.ID == 0 }

// Clone returns a shallow copy so stores never hand out their own pointers.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
