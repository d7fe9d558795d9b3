package cli

import (
	"context"
	"errors"
	"fmt"

	"bookkeeping/internal/amqp"
	"bookkeeping/internal/api"
	"bookkeeping/internal/backend"
	"bookkeeping/internal/cache"
	"bookkeeping/internal/config"
	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/router"
	"bookkeeping/internal/services"
	"bookkeeping/internal/session"
	"bookkeeping/internal/sheets"
	gsheet "bookkeeping/internal/sheets/google"
)

// Dependencies is the composition root for CLI commands.
type Dependencies struct {
	Config  *config.Config
	Logger  *log.Logger
	Session *session.Store
	API     *api.Client
	Auth    *services.AuthService
	Ledger  *services.LedgerService
	Routes  *router.Table

	// Exporter overrides the exporter derived from Config.
	Exporter sheets.RecordExporter

	caches  *cache.Manager
	cleanup []func() error
}

var deps *Dependencies

// SetDeps replaces the dependencies commands run against.
func SetDeps(d *Dependencies) {
	deps = d
}

// NewDependencies wires every service from cfg. AMQP is optional: a broker
// that cannot be reached is logged and events are not published.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Dependencies, error) {
	logger = log.OrDefault(logger)
	d := &Dependencies{Config: cfg, Logger: logger, Routes: router.Default()}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	d.cleanup = append(d.cleanup, res.Cleanup)

	d.Session, err = session.New(ctx, res.Storage, logger)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	d.API, err = api.New(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout, Logger: logger})
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	categories := cache.NewLRUCache[[]core.Category](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)
	d.caches = cache.NewManager(logger)
	d.caches.Register(categories)
	if cfg.CategoryCacheTTL > 0 {
		d.caches.StartCleanup(ctx, cfg.CategoryCacheTTL)
		d.cleanup = append(d.cleanup, func() error { d.caches.Stop(); return nil })
	}

	var publisher amqp.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WarnContext(ctx, "Record events disabled", log.FieldError, err)
		} else {
			publisher = client
			d.cleanup = append(d.cleanup, client.Close)
		}
	}

	d.Auth = services.NewAuthService(d.API, d.Session, logger)
	d.Ledger = services.NewLedgerService(d.API, d.Session, categories, publisher, logger)
	return d, nil
}

// RecordExporter returns the configured spreadsheet exporter, or nil when
// none is configured.
func (d *Dependencies) RecordExporter(ctx context.Context) (sheets.RecordExporter, error) {
	if d.Exporter != nil {
		return d.Exporter, nil
	}
	if !d.Config.SheetsEnabled() {
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.FromAppConfig(d.Config), d.Logger)
	if err != nil {
		return nil, fmt.Errorf("sheets exporter: %w", err)
	}
	d.Exporter = client
	return client, nil
}

// Close releases resources in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.cleanup) - 1; i >= 0; i-- {
		if err := d.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.cleanup = nil
	return errors.Join(errs...)
}

// initDependencies builds deps from the environment unless SetDeps ran.
// With ephemeral the session is not persisted.
func initDependencies(ctx context.Context, ephemeral bool) error {
	if deps != nil {
		return nil
	}
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if ephemeral {
		cfg.SessionBackend = string(backend.MemoryBackend)
	}
	logger := SetupLogger(cfg, log.ComponentCLI)

	d, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	deps = d
	return nil
}
