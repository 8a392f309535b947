package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/homemade/pickleshop/pkg/redis"
	"github.com/homemade/pickleshop/pkg/session"
)

// SessionKey is where the session-backed repository keeps the ledger.
const SessionKey = "cart_items"

// Repository loads and saves the ledger that belongs to a session.
type Repository interface {
	Load(ctx context.Context, sess *session.Session) (*Ledger, error)
	Save(ctx context.Context, sess *session.Session, ledger *Ledger) error
}

// SessionRepository stores the ledger inside the session document itself.
type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (SessionRepository) Load(_ context.Context, sess *session.Session) (*Ledger, error) {
	var items []Item
	if _, err := sess.Get(SessionKey, &items); err != nil {
		return nil, err
	}
	return &Ledger{Items: items}, nil
}

func (SessionRepository) Save(_ context.Context, sess *session.Session, ledger *Ledger) error {
	if ledger.Len() == 0 {
		sess.Delete(SessionKey)
		return nil
	}
	return sess.Set(SessionKey, ledger.Items)
}

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(sessionID string) string
}

// StoreRepository keeps the ledger in Redis keyed by session id, so carts
// survive across instances that share the store.
type StoreRepository struct {
	kv    kvStore
	keyer cartKeyer
	ttl   time.Duration
}

func NewStoreRepository(client *redisclient.Client, ttl time.Duration) (*StoreRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &StoreRepository{kv: client, keyer: client, ttl: ttl}, nil
}

func (r *StoreRepository) Load(ctx context.Context, sess *session.Session) (*Ledger, error) {
	raw, err := r.kv.Get(ctx, r.keyer.CartKey(sess.ID))
	if err != nil {
		if redisclient.IsNil(err) {
			return &Ledger{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	var ledger Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return &ledger, nil
}

func (r *StoreRepository) Save(ctx context.Context, sess *session.Session, ledger *Ledger) error {
	key := r.keyer.CartKey(sess.ID)
	if ledger.Len() == 0 {
		return r.kv.Del(ctx, key)
	}
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := r.kv.Set(ctx, key, string(raw), r.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}
