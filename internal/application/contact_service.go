package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/event"
	repo "github.com/oksasatya/agenda-api/internal/domain/repository"
)

var ErrContactNotFound = errors.New("contact not found")

var validate = validator.New()

const (
	maxNameLen  = 255
	maxEmailLen = 255
	maxPhoneLen = 50
)

// ValidationError lists offending fields keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid contact: " + strings.Join(parts, "; ")
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// ContactSearcher is satisfied by search.ContactIndex.
type ContactSearcher interface {
	Search(ctx context.Context, q string, size int) ([]*entity.Contact, error)
}

type Service struct {
	Repo     repo.ContactRepository
	Events   EventPublisher
	Searcher ContactSearcher
	Logger   *logrus.Logger
}

// NewService wires the contact use cases. events and searcher may be nil.
func NewService(repo repo.ContactRepository, events EventPublisher, searcher ContactSearcher, logger *logrus.Logger) *Service {
	return &Service{
		Repo:     repo,
		Events:   events,
		Searcher: searcher,
		Logger:   logger,
	}
}

func (s *Service) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func (s *Service) FindAll(ctx context.Context) ([]*entity.Contact, error) {
	return s.Repo.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	c, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

// Create persists a new contact. Ids are assigned by the store only.
func (s *Service) Create(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	fields := s.check(c)
	if !c.IsNew() {
		fields["id"] = "must be omitted on create"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	saved, err := s.Repo.Save(ctx, &entity.Contact{
		Name:         c.Name,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		Observations: c.Observations,
	})
	if err != nil {
		return nil, err
	}
	s.log().WithField("contact_id", saved.ID).Info("contact created")
	s.publish(ctx, event.ContactCreated, saved)
	return saved, nil
}

// Update overwrites every mutable field of contact id with the values in c.
func (s *Service) Update(ctx context.Context, id int64, c *entity.Contact) (*entity.Contact, error) {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	fields := s.check(c)
	if c.ID != 0 && c.ID != id {
		fields["id"] = "must match the contact being updated"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	existing.Name = c.Name
	existing.Email = c.Email
	existing.PhoneNumber = c.PhoneNumber
	existing.Observations = c.Observations

	saved, err := s.Repo.Save(ctx, existing)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.log().WithFields(logrus.Fields{"contact_id": saved.ID}).Debug("contact updated")
	s.publish(ctx, event.ContactUpdated, saved)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.log().WithField("contact_id", id).Info("contact deleted")
	s.publish(ctx, event.ContactDeleted, existing)
	return nil
}

// Search returns contacts matching q, or nothing when no search backend is configured.
func (s *Service) Search(ctx context.Context, q string, size int) ([]*entity.Contact, error) {
	if s.Searcher == nil {
		return []*entity.Contact{}, nil
	}
	return s.Searcher.Search(ctx, q, size)
}

func (s *Service) check(c *entity.Contact) map[string]string {
	fields := map[string]string{}
	switch {
	case strings.TrimSpace(c.Name) == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(c.Name) > maxNameLen:
		fields["name"] = fmt.Sprintf("must be at most %d characters long", maxNameLen)
	}
	if c.Email != "" {
		if utf8.RuneCountInString(c.Email) > maxEmailLen {
			fields["email"] = fmt.Sprintf("must be at most %d characters long", maxEmailLen)
		} else if validate.Var(c.Email, "email") != nil {
			fields["email"] = "must be a valid email"
		}
	}
	if utf8.RuneCountInString(c.PhoneNumber) > maxPhoneLen {
		fields["phoneNumber"] = fmt.Sprintf("must be at most %d characters long", maxPhoneLen)
	}
	return fields
}

func (s *Service) publish(ctx context.Context, t event.Type, c *entity.Contact) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, string(t), event.New(t, c)); err != nil {
		s.log().WithError(err).WithFields(logrus.Fields{"contact_id": c.ID, "event": t}).Warn("publish contact event failed")
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrContactNotFound, err)
	}
	return err
}
