package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
)

func ptr(v int64) *int64 { return &v }

func TestContactDTOBijection(t *testing.T) {
	dtos := []ContactDTO{
		{},
		{Name: "Ann"},
		{ID: ptr(1), Name: "Ann", Email: "a@x.com", PhoneNumber: "123", Observations: ""},
		{ID: ptr(42), Name: "Bob", Email: "", PhoneNumber: "555-0101", Observations: "call after 6pm"},
		{Name: "Eve", Email: "e@x.com", Observations: "no phone"},
	}
	for _, dto := range dtos {
		require.Equal(t, dto, NewContactDTO(dto.ToEntity()))
	}
}

func TestNewContactDTOKeepsEmailAndPhoneApart(t *testing.T) {
	c := &entity.Contact{ID: 3, Name: "Ann", Email: "a@x.com", PhoneNumber: "123", CreatedAt: time.Now()}
	dto := NewContactDTO(c)

	require.Equal(t, "a@x.com", dto.Email)
	require.Equal(t, "123", dto.PhoneNumber)
	require.Equal(t, int64(3), *dto.ID)
}

func TestNewContactDTOsNeverNil(t *testing.T) {
	require.NotNil(t, NewContactDTOs(nil))
	require.Len(t, NewContactDTOs([]*entity.Contact{{ID: 1}, {ID: 2}}), 2)
}
