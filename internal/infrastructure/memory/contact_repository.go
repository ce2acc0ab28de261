package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
)

// ContactRepository implements [repository.ContactRepository] in process memory.
// Ids come from a monotonic sequence and are never reused, even after deletes.
type ContactRepository struct {
	mu       sync.Mutex
	seq      int64
	order    []int64
	contacts map[int64]*entity.Contact
}

var _ repository.ContactRepository = (*ContactRepository)(nil)

// NewContactRepository returns a store pre-filled with cs; each contact gets a fresh id.
func NewContactRepository(cs ...*entity.Contact) *ContactRepository {
	r := &ContactRepository{contacts: make(map[int64]*entity.Contact, len(cs))}
	for _, c := range cs {
		r.insert(c.Clone())
	}
	return r
}

func (r *ContactRepository) insert(c *entity.Contact) *entity.Contact {
	r.seq++
	now := time.Now().UTC()
	c.ID = r.seq
	c.CreatedAt, c.UpdatedAt = now, now
	r.contacts[c.ID] = c
	r.order = append(r.order, c.ID)
	return c
}

func (r *ContactRepository) FindAll(_ context.Context) ([]*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Contact, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.contacts[id].Clone())
	}
	return out, nil
}

func (r *ContactRepository) FindByID(_ context.Context, id int64) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *ContactRepository) Save(_ context.Context, c *entity.Contact) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.IsNew() {
		return r.insert(c.Clone()).Clone(), nil
	}
	old, ok := r.contacts[c.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := c.Clone()
	next.CreatedAt = old.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	r.contacts[c.ID] = next
	return next.Clone(), nil
}

func (r *ContactRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.contacts, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Len returns the number of stored contacts.
func (r *ContactRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}
