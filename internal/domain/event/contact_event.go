package event

import (
	"time"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
)

// Type of change applied to a contact.
type Type string

const (
	ContactCreated Type = "contact.created"
	ContactUpdated Type = "contact.updated"
	ContactDeleted Type = "contact.deleted"
)

// ContactEvent is the JSON payload put on the RabbitMQ queue after a contact changes.
// Contact is omitted for deletions.
type ContactEvent struct {
	Type       Type            `json:"type"`
	ContactID  int64           `json:"contact_id"`
	Contact    *ContactPayload `json:"contact,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type ContactPayload struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	Observations string    `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func New(t Type, c *entity.Contact) ContactEvent {
	ev := ContactEvent{Type: t, ContactID: c.ID, OccurredAt: time.Now().UTC()}
	if t != ContactDeleted {
		ev.Contact = &ContactPayload{
			ID:           c.ID,
			Name:         c.Name,
			Email:        c.Email,
			PhoneNumber:  c.PhoneNumber,
			Observations: c.Observations,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
	}
	return ev
}

// Entity converts the payload back into a domain contact.
func (p *ContactPayload) Entity() *entity.Contact {
	return &entity.Contact{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		PhoneNumber:  p.PhoneNumber,
		Observations: p.Observations,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
