package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/homemade/pickleshop/api/controllers"
	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/api/routes"
	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/contacts"
	"github.com/homemade/pickleshop/internal/orders"
	"github.com/homemade/pickleshop/internal/records"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/internal/users"
	"github.com/homemade/pickleshop/pkg/awsclient"
	"github.com/homemade/pickleshop/pkg/config"
	"github.com/homemade/pickleshop/pkg/instance"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/metrics"
	"github.com/homemade/pickleshop/pkg/notify"
	"github.com/homemade/pickleshop/pkg/redis"
	"github.com/homemade/pickleshop/pkg/security"
	"github.com/homemade/pickleshop/pkg/session"
	"github.com/homemade/pickleshop/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "pickleshop"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pickleshop",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var awsCfg *aws.Config
	if loaded, loadErr := awsclient.Load(ctx, cfg.AWS); loadErr != nil {
		logg.Warn(ctx, "aws.config.unavailable", loadErr)
	} else {
		awsCfg = &loaded
	}

	handle := records.Open(ctx, records.Options{Config: cfg, AWS: awsCfg, Logger: logg, Metrics: m})
	defer func() { err = multierr.Append(err, handle.Close()) }()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	}

	sessionStore, err := newSessionStore(redisClient)
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(sessionStore, cfg.Session, logg)
	if err != nil {
		return err
	}

	cartRepo, err := newCartRepository(cfg, redisClient)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cartRepo, cart.PricingFromConfig(cfg.Pricing), logg)
	if err != nil {
		return err
	}

	tables := records.TablesFromConfig(cfg.Tables)
	orderSvc, err := orders.NewService(orders.Deps{
		Store:    handle.Store,
		Tables:   tables,
		Notifier: newNotifier(ctx, cfg, awsCfg, logg),
		Metrics:  m,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	contactSvc, err := contacts.NewService(handle.Store, tables.Contacts, logg)
	if err != nil {
		return err
	}

	encoder := security.NewPasswordEncoder(cfg.Password)
	if encoder.Scheme() == config.PasswordStoragePlaintext {
		logg.Warn(ctx, "users.password.plaintext")
	}
	userSvc, err := users.NewService(handle.Store, tables.Users, encoder, logg)
	if err != nil {
		return err
	}

	rdr, err := render.New(web.Templates, web.TemplateDir, controllers.CartCounter(cartSvc), logg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Logger:       logg,
			Metrics:      m,
			Gatherer:     reg,
			Sessions:     sessions,
			Renderer:     rdr,
			Policy:       reporting.FromConfig(cfg.Policy.WriteReporting, logg),
			Availability: handle.Availability,
			Cart:         cartSvc,
			Orders:       orderSvc,
			Contacts:     contactSvc,
			Users:        userSvc,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
		"services": handle.Availability.Services(),
		"policy":   cfg.Policy.WriteReporting,
		"cart":     cfg.Policy.CartBackend,
	}), "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newSessionStore(client *redis.Client) (session.Store, error) {
	if client == nil {
		return session.NewMemoryStore(), nil
	}
	return session.NewRedisStore(client)
}

func newCartRepository(cfg *config.Config, client *redis.Client) (cart.Repository, error) {
	if cfg.Policy.CartBackend == config.CartBackendStore {
		return cart.NewStoreRepository(client, cfg.Session.TTL)
	}
	return cart.NewSessionRepository(), nil
}

func newNotifier(ctx context.Context, cfg *config.Config, awsCfg *aws.Config, logg *logger.Logger) notify.Publisher {
	if cfg.Notify.Driver != config.NotifyDriverSNS || awsCfg == nil {
		return notify.Noop{}
	}
	publisher, err := notify.NewSNS(*awsCfg, awsclient.Endpoint(cfg.AWS), cfg.Notify.TopicARN)
	if err != nil {
		logg.Warn(ctx, "notify.sns.unavailable", err)
		return notify.Noop{}
	}
	return publisher
}
