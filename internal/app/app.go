// Package app assembles the configured logger, store, notifier and services
// into a ready Facade.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/config"
	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/facade"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/notify"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
	"github.com/Gopher0727/StudyGroup/internal/service"
	"github.com/Gopher0727/StudyGroup/internal/store"
	"github.com/Gopher0727/StudyGroup/internal/store/sqlstore"
	"github.com/Gopher0727/StudyGroup/utils/snowflake"
)

type App struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Store    store.Store
	Notifier notify.Notifier
	Facade   *facade.Facade
}

// New builds every component from cfg. The returned App owns them; call Close.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a, err := NewWithLogger(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}
	return a, nil
}

// NewWithLogger is New with a caller-supplied logger. The App takes
// ownership of log and closes it on Close.
//
// Parameters:
//   - cfg: Validated configuration
//   - log: Logger shared by every component
//
// Returns:
//   - *App: The wired application
//   - error: Any error encountered while opening the store or notifier
func NewWithLogger(cfg *config.Config, log *logger.Logger) (*App, error) {
	s, err := OpenStore(&cfg.Storage, domain.NewCatalog(cfg.Catalog.Courses, cfg.Catalog.Locations))
	if err != nil {
		return nil, err
	}

	notifier, err := notify.New(&cfg.Notify)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	ids, err := snowflake.NewGenerator(snowflake.Config{
		DatacenterID:   cfg.Snowflake.DatacenterID,
		DatacenterBits: 5,
		WorkerID:       cfg.Snowflake.WorkerID,
		WorkerIDBits:   5,
	})
	if err != nil {
		s.Close()
		notifier.Close()
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}

	registry := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(registry)
	}

	log.Info("study group engine ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("notify", cfg.Notify.Driver),
		zap.Int("courses", len(s.Catalog().Courses())),
		zap.Int("locations", len(s.Catalog().Locations())),
	)

	return &App{
		Registry: registry,
		Metrics:  m,
		Logger:   log,
		Store:    s,
		Notifier: notifier,
		Facade: facade.New(
			service.NewUserService(s, log, m),
			service.NewGroupService(s, log, m),
			service.NewMessageService(s, ids, notifier, log, m),
		),
	}, nil
}

// OpenStore returns the store selected by cfg.Driver.
func OpenStore(cfg *config.StorageConfig, catalog *domain.Catalog) (store.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewDirectory(catalog, store.WithBcryptCost(cfg.BcryptCost)), nil
	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
		s, err := sqlstore.Open(sqlstore.Options{
			Driver:       cfg.Driver,
			DSN:          cfg.DSN,
			BcryptCost:   cfg.BcryptCost,
			MaxIdleConns: cfg.MaxIdleConns,
			MaxOpenConns: cfg.MaxOpenConns,
		}, catalog)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// LogMetrics writes every non-zero counter to the log.
func (a *App) LogMetrics() error {
	families, err := a.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			fields := []zap.Field{zap.String("metric", family.GetName()), zap.Float64("value", value)}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			a.Logger.Info("counter", fields...)
		}
	}
	return nil
}

// Reset clears the store between runs.
func (a *App) Reset(ctx context.Context) error {
	return a.Store.Reset(ctx)
}

// Close releases the notifier, the store and the logger, joining their errors.
func (a *App) Close() error {
	return errors.Join(
		a.Notifier.Close(),
		a.Store.Close(),
		a.Logger.Close(),
	)
}
