package handlers

import "github.com/oksasatya/agenda-api/internal/domain/entity"

// ContactDTO is the wire shape of a contact. ID is null until the store assigns one.
type ContactDTO struct {
	ID           *int64 `json:"id"`
	Name         string `json:"name" binding:"contact_name"`
	Email        string `json:"email" binding:"contact_email"`
	PhoneNumber  string `json:"phoneNumber" binding:"contact_phone"`
	Observations string `json:"observations"`
}

func NewContactDTO(c *entity.Contact) ContactDTO {
	dto := ContactDTO{
		Name:         c.Name,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		Observations: c.Observations,
	}
	if c.ID != 0 {
		id := c.ID
		dto.ID = &id
	}
	return dto
}

func NewContactDTOs(cs []*entity.Contact) []ContactDTO {
	out := make([]ContactDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewContactDTO(c))
	}
	return out
}

func (d ContactDTO) ToEntity() *entity.Contact {
	c := &entity.Contact{
		Name:         d.Name,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		Observations: d.Observations,
	}
	if d.ID != nil {
		c.ID = *d.ID
	}
	return c
}
