package records

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/homemade/pickleshop/pkg/awsclient"
	"github.com/homemade/pickleshop/pkg/config"
	"github.com/homemade/pickleshop/pkg/db"
	"github.com/homemade/pickleshop/pkg/dynamo"
	pkgerrors "github.com/homemade/pickleshop/pkg/errors"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/metrics"
	"github.com/homemade/pickleshop/pkg/migrate"
)

// Options configures Open.
type Options struct {
	Config *config.Config
	// AWS is nil when no credentials could be resolved.
	AWS     *aws.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Handle is the opened store together with its startup availability.
type Handle struct {
	Store        Store
	Availability Availability
	db           *db.Client
}

// Close releases the SQL pool when one was opened.
func (h *Handle) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Open selects and verifies the configured backend. Any startup failure
// degrades to the local store with a warning; Open itself never fails.
func Open(ctx context.Context, opts Options) *Handle {
	cfg := opts.Config
	logg := opts.Logger
	ctx = logg.WithField(ctx, "store_driver", cfg.Store.Driver)

	handle, err := open(ctx, opts)
	if err != nil {
		logg.Warn(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "store.unavailable.local_mode", err)
		handle = &Handle{
			Store:        NewLocalStore(),
			Availability: Availability{Backend: BackendLocal},
		}
	} else {
		logg.Info(logg.WithField(ctx, "backend", handle.Store.Backend()), "store.available")
	}
	handle.Store = Instrumented(handle.Store, opts.Metrics)
	return handle
}

func open(ctx context.Context, opts Options) (*Handle, error) {
	cfg := opts.Config
	switch cfg.Store.Driver {
	case config.StoreDriverNone:
		return nil, fmt.Errorf("store driver %q selected", config.StoreDriverNone)

	case config.StoreDriverDynamoDB:
		if opts.AWS == nil {
			return nil, awsclient.ErrNoCredentials
		}
		client := dynamo.New(*opts.AWS, awsclient.Endpoint(cfg.AWS))
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.StartupTimeout)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dynamodb unreachable")
		}
		return &Handle{
			Store:        NewDynamoStore(client),
			Availability: Availability{Available: true, Backend: BackendDynamoDB},
		}, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		client, err := db.New(ctx, cfg.Store.Driver, cfg.DB, opts.Logger)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable")
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.StartupTimeout)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable")
		}
		if err := migrate.MaybeRun(ctx, cfg, opts.Logger, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Handle{
			Store:        NewSQLStore(client, cfg.Store.Driver),
			Availability: Availability{Available: true, Backend: cfg.Store.Driver},
			db:           client,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
