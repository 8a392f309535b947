package records

import (
	"context"
	"fmt"

	"github.com/homemade/pickleshop/pkg/config"
	pkgerrors "github.com/homemade/pickleshop/pkg/errors"
)

// Backend names reported by Store.Backend.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendLocal    = "local"
)

// Record is a flat field to value mapping written as one row or item.
type Record map[string]any

// Store is the durable record boundary. Writes are single puts with no
// read-back and no retry.
type Store interface {
	Put(ctx context.Context, table string, record Record) error
	Backend() string
}

// Tables holds the configured table names.
type Tables struct {
	Orders    string
	Contacts  string
	Users     string
	CartItems string
}

func TablesFromConfig(cfg config.TablesConfig) Tables {
	return Tables{
		Orders:    cfg.Orders,
		Contacts:  cfg.Contacts,
		Users:     cfg.Users,
		CartItems: cfg.CartItems,
	}
}

func DefaultTables() Tables {
	return Tables{
		Orders:    "PickleOrders",
		Contacts:  "ContactMessages",
		Users:     "Users",
		CartItems: "CartItems",
	}
}

// Availability is decided once at startup and never changes afterwards.
type Availability struct {
	Available bool
	Backend   string
}

// Services lists what /health reports: always "local", plus the durable
// backend when it was reachable at startup.
func (a Availability) Services() []string {
	if !a.Available {
		return []string{"local"}
	}
	name := a.Backend
	if name == BackendDynamoDB {
		name = "aws"
	}
	return []string{"local", name}
}

type putter interface {
	PutItem(ctx context.Context, table string, item map[string]any) error
}

type dynamoStore struct {
	client putter
}

// NewDynamoStore writes every record with a single PutItem.
func NewDynamoStore(client putter) Store {
	return &dynamoStore{client: client}
}

func (s *dynamoStore) Put(ctx context.Context, table string, record Record) error {
	if err := s.client.PutItem(ctx, table, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("put %s", table))
	}
	return nil
}

func (s *dynamoStore) Backend() string { return BackendDynamoDB }

type inserter interface {
	Insert(ctx context.Context, table string, row map[string]any) error
}

type sqlStore struct {
	db      inserter
	backend string
}

// NewSQLStore writes every record as one INSERT into the table of the same name.
func NewSQLStore(db inserter, backend string) Store {
	return &sqlStore{db: db, backend: backend}
}

func (s *sqlStore) Put(ctx context.Context, table string, record Record) error {
	if err := s.db.Insert(ctx, table, map[string]any(record)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("insert %s", table))
	}
	return nil
}

func (s *sqlStore) Backend() string { return s.backend }

type localStore struct{}

// NewLocalStore returns the local-mode store; every write is skipped.
func NewLocalStore() Store {
	return localStore{}
}

func (localStore) Put(context.Context, string, Record) error { return nil }

func (localStore) Backend() string { return BackendLocal }
