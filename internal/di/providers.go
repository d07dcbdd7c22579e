package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/vbonduro/shishalog/internal/backup"
	"github.com/vbonduro/shishalog/internal/backupstore"
	"github.com/vbonduro/shishalog/internal/backupstore/local"
	"github.com/vbonduro/shishalog/internal/backupstore/s3"
	"github.com/vbonduro/shishalog/internal/config"
	"github.com/vbonduro/shishalog/internal/db"
	"github.com/vbonduro/shishalog/internal/kv"
	"github.com/vbonduro/shishalog/internal/kv/badgerkv"
	"github.com/vbonduro/shishalog/internal/kv/memory"
	"github.com/vbonduro/shishalog/internal/kv/sqlkv"
	"github.com/vbonduro/shishalog/internal/logging"
	"github.com/vbonduro/shishalog/internal/metrics"
	"github.com/vbonduro/shishalog/internal/ratelimit"
	"github.com/vbonduro/shishalog/internal/service"
	"github.com/vbonduro/shishalog/internal/store"
	"github.com/vbonduro/shishalog/internal/validation"
	"github.com/vbonduro/shishalog/internal/web"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 30 * time.Second

// LoggerHandle wraps the application logger and closes its log file on
// shutdown.
type LoggerHandle struct {
	*slog.Logger
	cleanup func()
}

// Shutdown implements do.Shutdowner.
func (h *LoggerHandle) Shutdown() {
	h.cleanup()
}

func ProvideLogger(i do.Injector) (*LoggerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("starting shishalog",
		"storage_backend", cfg.StorageBackend,
		"backup_backend", cfg.BackupBackend,
		"log_level", cfg.LogLevel,
	)
	return &LoggerHandle{Logger: logger, cleanup: cleanup}, nil
}

func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}

// SubstrateHandle is the instrumented, quota-limited substrate. Shutdown
// closes the backend it was opened on.
type SubstrateHandle struct {
	kv.Substrate
	closer io.Closer
}

// Shutdown implements do.ShutdownerWithError.
func (h *SubstrateHandle) Shutdown() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

func ProvideSubstrate(i do.Injector) (*SubstrateHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	var (
		base   kv.Substrate
		closer io.Closer
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		s := sqlkv.New(database, sqlkv.SQLite)
		base, closer = s, s
		log.Info("database initialized", "backend", cfg.StorageBackend, "path", cfg.DBPath)
	case config.BackendPostgres:
		database, err := db.OpenPostgres(context.Background(), cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		s := sqlkv.New(database, sqlkv.Postgres)
		base, closer = s, s
		log.Info("database initialized", "backend", cfg.StorageBackend)
	case config.BackendBadger:
		s, err := badgerkv.Open(cfg.BadgerPath, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}
		base, closer = s, s
		log.Info("database initialized", "backend", cfg.StorageBackend, "path", cfg.BadgerPath)
	case config.BackendMemory:
		base = memory.New()
		log.Warn("using in-memory storage, records are lost on exit")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	sub := m.Substrate(kv.WithQuota(base, cfg.StorageQuotaBytes))
	return &SubstrateHandle{Substrate: sub, closer: closer}, nil
}

func storeOptions(i do.Injector) []store.Option {
	log := do.MustInvoke[*LoggerHandle](i)
	return []store.Option{store.WithLogger(log.Logger)}
}

func ProvideShopStore(i do.Injector) (*store.ShopStore, error) {
	sub := do.MustInvoke[*SubstrateHandle](i)
	return store.NewShopStore(sub, storeOptions(i)...), nil
}

func ProvideFlavorStore(i do.Injector) (*store.FlavorStore, error) {
	sub := do.MustInvoke[*SubstrateHandle](i)
	return store.NewFlavorStore(sub, storeOptions(i)...), nil
}

func ProvideSettingsStore(i do.Injector) (*store.SettingsStore, error) {
	sub := do.MustInvoke[*SubstrateHandle](i)
	return store.NewSettingsStore(sub, storeOptions(i)...), nil
}

func ProvideBackupManager(i do.Injector) (*backup.Manager, error) {
	sub := do.MustInvoke[*SubstrateHandle](i)
	log := do.MustInvoke[*LoggerHandle](i)
	return backup.NewManager(
		sub,
		do.MustInvoke[*store.ShopStore](i),
		do.MustInvoke[*store.FlavorStore](i),
		do.MustInvoke[*store.SettingsStore](i),
		log.Logger,
	), nil
}

// ProvideBackupStore provides the archive that POST /backups writes to.
func ProvideBackupStore(i do.Injector) (backupstore.BackupStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	switch cfg.BackupBackend {
	case config.BackupS3:
		st, err := s3.New(context.Background(), s3.Config{
			Bucket:    cfg.BackupS3Bucket,
			Region:    cfg.BackupS3Region,
			Endpoint:  cfg.BackupS3Endpoint,
			PathStyle: cfg.BackupS3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 backup store: %w", err)
		}
		log.Info("backup store initialized", "backend", cfg.BackupBackend, "bucket", cfg.BackupS3Bucket)
		return st, nil
	case config.BackupLocal:
		st, err := local.NewLocalBackupStore(cfg.BackupLocalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local backup store: %w", err)
		}
		log.Info("backup store initialized", "backend", cfg.BackupBackend, "path", cfg.BackupLocalPath)
		return st, nil
	default:
		return nil, fmt.Errorf("unknown backup backend %q", cfg.BackupBackend)
	}
}

func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

func ProvideRecordService(i do.Injector) (*service.RecordService, error) {
	log := do.MustInvoke[*LoggerHandle](i)
	return service.NewRecordService(
		do.MustInvoke[*store.ShopStore](i),
		do.MustInvoke[*store.FlavorStore](i),
		do.MustInvoke[*store.SettingsStore](i),
		do.MustInvoke[*backup.Manager](i),
		do.MustInvoke[backupstore.BackupStore](i),
		do.MustInvoke[*validation.Validator](i),
		log.Logger,
	), nil
}

// RateLimiterHandle holds the write limiter. Limiter is nil when
// RATE_LIMIT_RPS is not positive.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdowner.
func (h *RateLimiterHandle) Shutdown() {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
}

func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.RateLimitRPS <= 0 {
		return &RateLimiterHandle{}, nil
	}
	return &RateLimiterHandle{Limiter: ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)}, nil
}

func ProvideWebServer(i do.Injector) (*web.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	return web.NewServer(
		do.MustInvoke[*service.RecordService](i),
		do.MustInvoke[*metrics.Metrics](i),
		do.MustInvoke[*RateLimiterHandle](i).Limiter,
		cfg.CORSAllowedOrigins,
		log.Logger,
	), nil
}

// HTTPServerHandle wraps http.Server with graceful shutdown.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.ShutdownerWithError.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	srv := do.MustInvoke[*web.Server](i)
	return &HTTPServerHandle{Server: srv.HTTPServer(cfg.ListenAddr)}, nil
}
