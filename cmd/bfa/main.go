package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/config"
	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/handler"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/cache"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/observability"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/sqlstore"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/storage"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/supabase"
	"github.com/boddenberg/smartpresence-bfa-go/internal/port"
	"github.com/boddenberg/smartpresence-bfa-go/internal/service"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "smartpresence-bfa"

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bfa",
		Short:        "SmartPresence order-intake backend",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema (postgres/sqlite drivers)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(cmd.Context(), func(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
				if err := sqlstore.Migrate(ctx, db); err != nil {
					return err
				}
				logger.Info("schema migrated")
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the default packages and plans into empty catalog tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(cmd.Context(), func(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
				return sqlstore.Seed(ctx, db, logger)
			})
		},
	})

	var supreme bool
	promote := &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant the admin role to a registered account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(cmd.Context(), func(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
				if err := sqlstore.PromoteAdmin(ctx, db, args[0], supreme); err != nil {
					return err
				}
				logger.Info("account promoted", zap.String("email", args[0]), zap.Bool("supreme", supreme))
				return nil
			})
		},
	}
	promote.Flags().BoolVar(&supreme, "supreme", false, "mark the account as the supreme admin")
	root.AddCommand(promote)

	return root
}

// withSQL runs fn against the configured SQL database. The Supabase driver
// manages its schema in the hosted project instead.
func withSQL(ctx context.Context, fn func(context.Context, *gorm.DB, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.LogLevel, serviceName)
	defer logger.Sync()

	if cfg.StoreDriver == config.DriverSupabase {
		return fmt.Errorf("STORE_DRIVER=%s: run schema changes in the Supabase project", cfg.StoreDriver)
	}
	db, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	defer sqlstore.Close(db)
	return fn(ctx, db, logger)
}

func serve(ctx context.Context) error {
	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, serviceName)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_driver", cfg.StoreDriver),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Bool("redis_cache", cfg.RedisAddr != ""),
		zap.Bool("contract_archive", cfg.ArchiveEnabled()),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store & auth ---
	store, auth, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Cache ---
	pkgCache, planCache, closeCache, err := openCatalogCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	// --- Contract archive ---
	var archive port.ContractArchive
	if cfg.ArchiveEnabled() {
		s3, err := storage.NewS3Archive(ctx, storage.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
		})
		if err != nil {
			return fmt.Errorf("contract archive: %w", err)
		}
		archive = s3
		logger.Info("contract archive enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// --- Services ---
	v := validation.New()
	catalogSvc := service.NewCatalogService(store, pkgCache, planCache, metrics, logger)
	analyticsSvc := service.NewAnalyticsService(store, resilience.NewBulkhead(cfg.MaxConcurrency), cfg.AnalyticsTimeout, metrics, logger)

	svc := handler.Services{
		Auth:    service.NewAuthService(auth, store, v, logger),
		Catalog: catalogSvc,
		Orders:  service.NewOrderService(store, catalogSvc, v, metrics, logger),
		Confirmation: service.NewConfirmationService(store, catalogSvc, service.PaymentConfig{
			Beneficiary:   cfg.PaypayName,
			Number:        cfg.PaypayNumber,
			AdminWhatsApp: cfg.AdminWhatsApp,
		}, logger),
		Contracts: service.NewContractService(store, archive, metrics, logger),
		Analytics: analyticsSvc,
		Dashboard: service.NewDashboardService(store, catalogSvc, analyticsSvc, logger),
		Policies:  service.NewPolicyService(),
		Validator: v,
		Store:     store,
	}

	// --- Router ---
	router := handler.NewRouter(svc, cfg.CORSOrigins, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// openStore builds the persistence adapter and matching auth provider for
// the configured driver.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Store, port.AuthProvider, func(), error) {
	if cfg.StoreDriver == config.DriverSupabase {
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		client := supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase"),
			resilience.Config{
				MaxRetries:     cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
				MaxConcurrency: cfg.MaxConcurrency,
			},
			logger,
		)
		return client, supabase.NewAuthProvider(client, cfg.SupabaseJWTSecret), func() {}, nil
	}

	logger.Info("using SQL data backend", zap.String("driver", cfg.StoreDriver))
	db, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.StoreDriver == config.DriverSQLite {
		// Local development: keep the schema and catalog ready without a
		// separate migrate step.
		if err := sqlstore.Migrate(ctx, db); err != nil {
			sqlstore.Close(db)
			return nil, nil, nil, err
		}
		if err := sqlstore.Seed(ctx, db, logger); err != nil {
			sqlstore.Close(db)
			return nil, nil, nil, err
		}
	}
	closeDB := func() {
		if err := sqlstore.Close(db); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}
	return sqlstore.New(db), sqlstore.NewAuthProvider(db, cfg.JWTSecret, cfg.JWTAccessTTL), closeDB, nil
}

// openCatalogCache returns Redis-backed caches when REDIS_ADDR is set and
// in-memory ones otherwise.
func openCatalogCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Cache[[]domain.Package], port.Cache[[]domain.ManagementPlan], func(), error) {
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis: %w", err)
		}
		logger.Info("catalog cache backed by Redis", zap.String("addr", cfg.RedisAddr))
		closeRedis := func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}
		return cache.NewRedis[[]domain.Package](rdb, "smartpresence:catalog", cfg.CacheTTL, logger),
			cache.NewRedis[[]domain.ManagementPlan](rdb, "smartpresence:catalog", cfg.CacheTTL, logger),
			closeRedis, nil
	}

	pkgs := cache.New[[]domain.Package](cfg.CacheTTL)
	plans := cache.New[[]domain.ManagementPlan](cfg.CacheTTL)
	return pkgs, plans, func() {
		pkgs.Close()
		plans.Close()
	}, nil
}
