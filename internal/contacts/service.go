package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homemade/pickleshop/internal/records"
	"github.com/homemade/pickleshop/pkg/logger"
)

type Service interface {
	Submit(ctx context.Context, input Input) (string, error)
	Subscribe(ctx context.Context, email string) error
}

// Input is a contact form submission.
type Input struct {
	Name    string
	Email   string
	Message string
}

type service struct {
	store records.Store
	table string
	logg  *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(store records.Store, table string, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if table == "" {
		return nil, fmt.Errorf("contacts table required")
	}
	return &service{store: store, table: table, logg: logg, now: time.Now, newID: uuid.NewString}, nil
}

func (s *service) Submit(ctx context.Context, input Input) (string, error) {
	contactID := s.newID()
	err := s.store.Put(ctx, s.table, records.Record{
		"contact_id": contactID,
		"name":       input.Name,
		"email":      input.Email,
		"message":    input.Message,
		"timestamp":  s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return contactID, err
	}
	s.logg.Info(s.logg.WithField(ctx, "contact_id", contactID), "contacts.message.received")
	return contactID, nil
}

// Subscribe acknowledges a newsletter signup. Nothing is persisted.
func (s *service) Subscribe(ctx context.Context, email string) error {
	s.logg.Info(s.logg.WithField(ctx, "email", email), "contacts.subscribed")
	return nil
}
