package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemade/pickleshop/internal/records"
)

type stubStore struct {
	table  string
	record records.Record
	err    error
}

func (s *stubStore) Put(_ context.Context, table string, record records.Record) error {
	s.table = table
	s.record = record
	return s.err
}

func (s *stubStore) Backend() string { return "stub" }

func TestSubmitWritesContactRecord(t *testing.T) {
	store := &stubStore{}
	svc, err := NewService(store, "ContactMessages", nil)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }
	impl.newID = func() string { return "contact-1" }

	id, err := svc.Submit(context.Background(), Input{Name: "Ravi", Email: "ravi@example.com", Message: "Do you ship to Pune?"})
	require.NoError(t, err)
	assert.Equal(t, "contact-1", id)
	assert.Equal(t, "ContactMessages", store.table)
	assert.Equal(t, records.Record{
		"contact_id": "contact-1",
		"name":       "Ravi",
		"email":      "ravi@example.com",
		"message":    "Do you ship to Pune?",
		"timestamp":  "2024-05-02T08:00:00Z",
	}, store.record)
}

func TestSubmitReturnsStoreError(t *testing.T) {
	boom := errors.New("unavailable")
	svc, err := NewService(&stubStore{err: boom}, "ContactMessages", nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), Input{Name: "Ravi"})
	assert.ErrorIs(t, err, boom)
}

func TestSubscribeAlwaysSucceeds(t *testing.T) {
	store := &stubStore{}
	svc, err := NewService(store, "ContactMessages", nil)
	require.NoError(t, err)

	assert.NoError(t, svc.Subscribe(context.Background(), "fan@example.com"))
	assert.NoError(t, svc.Subscribe(context.Background(), ""))
	assert.Empty(t, store.table, "subscriptions are not persisted")
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(nil, "ContactMessages", nil)
	assert.Error(t, err)
	_, err = NewService(&stubStore{}, "", nil)
	assert.Error(t, err)
}
