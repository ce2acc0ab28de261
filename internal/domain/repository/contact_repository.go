package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
)

// ErrNotFound is returned by every ContactRepository when the id is absent.
var ErrNotFound = errors.New("contact not found")

// ContactRepository defines key-addressed persistence for contacts.
type ContactRepository interface {
	FindAll(ctx context.Context) ([]*entity.Contact, error)
	FindByID(ctx context.Context, id int64) (*entity.Contact, error)
	// Save inserts when c.ID is zero (assigning the id) and overwrites otherwise.
	Save(ctx context.Context, c *entity.Contact) (*entity.Contact, error)
	DeleteByID(ctx context.Context, id int64) error
}
