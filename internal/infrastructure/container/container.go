// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	aiService "github.com/platewise/v1/internal/application/ai"
	"github.com/platewise/v1/internal/application/barcode"
	"github.com/platewise/v1/internal/application/dashboard"
	"github.com/platewise/v1/internal/application/demo"
	foodService "github.com/platewise/v1/internal/application/food"
	userService "github.com/platewise/v1/internal/application/user"
	"github.com/platewise/v1/internal/infrastructure/ai"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/server"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/infrastructure/nutrition/edamam"
	"github.com/platewise/v1/internal/infrastructure/nutrition/openfoodfacts"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/infrastructure/persistence/postgres"
	redisCache "github.com/platewise/v1/internal/infrastructure/persistence/redis"
	"github.com/platewise/v1/internal/infrastructure/persistence/sqlite"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/healthcheck"
	"github.com/platewise/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	NutritionModule,
	SecurityModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// PostgresBackend carries the pgx pool when Postgres is the configured
// driver. It stays nil-valued under SQLite.
type PostgresBackend struct {
	Pool *pgxpool.Pool
}

// DatabaseModule provides the GORM handle for the configured driver
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, *PostgresBackend, error) {
		if cfg.Database.Driver == "postgres" {
			manager, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}
			return manager.GetDB(), &PostgresBackend{Pool: manager.Pool()}, nil
		}

		dbPath := ":memory:"
		if cfg.Database.Database != "" {
			dbPath = cfg.Database.Database + ".db"
		}

		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(dbPath, logLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup sqlite database: %w", err)
		}

		if err := sqlite.SeedDatabase(db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}

		log.Info("Connected to SQLite database",
			zap.String("path", dbPath),
			zap.Bool("in_memory", dbPath == ":memory:"),
		)
		return db, &PostgresBackend{}, nil
	},
)

// RedisBackend carries the raw client when Redis is the cache backend.
// It stays nil when the in-memory cache is used.
type RedisBackend struct {
	Client *redis.Client
}

// CacheModule provides the cache backend. Redis when enabled,
// otherwise the in-process cache.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, *RedisBackend, error) {
		if !cfg.Redis.Enabled {
			log.Info("Using in-memory cache")
			return memory.NewCacheRepository(), &RedisBackend{}, nil
		}

		client, err := redisCache.NewClient(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr()))
		return redisCache.NewCacheRepository(client, log), &RedisBackend{Client: client}, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewFoodRepository,
	gormRepo.NewFoodLogRepository,
	gormRepo.NewPlanRepository,
	gormRepo.NewRecommendationRepository,
)

// NutritionAPIs bundles the external food databases in lookup order
type NutritionAPIs struct {
	Primary  outbound.NutritionAPI
	Fallback outbound.NutritionAPI
}

// NutritionModule provides the external nutrition database clients
var NutritionModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) NutritionAPIs {
		apis := NutritionAPIs{
			Primary: openfoodfacts.NewClient(cfg, log),
		}
		if cfg.Nutrition.EdamamAppID != "" && cfg.Nutrition.EdamamAppKey != "" {
			apis.Fallback = edamam.NewClient(cfg, log)
		}
		return apis
	},
)

// SecurityModule provides auth, validation and metrics
var SecurityModule = fx.Provide(
	security.NewAuthService,
	security.NewValidationService,
	monitoring.NewMetricsCollector,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	ai.NewAIService,

	userService.NewService,

	func(
		foods outbound.FoodRepository,
		logs outbound.FoodLogRepository,
		apis NutritionAPIs,
		cache outbound.CacheRepository,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.FoodService {
		return foodService.NewService(foods, logs, apis.Primary, apis.Fallback, cache, metrics, log)
	},

	barcode.NewService,
	dashboard.NewService,
	aiService.NewService,

	func(foods outbound.FoodRepository, logs outbound.FoodLogRepository, log *zap.Logger) *demo.Generator {
		return demo.NewGenerator(foods, logs, 0, log)
	},
)

// HTTPModule provides the HTTP server and health checks
var HTTPModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		db *gorm.DB,
		pg *PostgresBackend,
		backend *RedisBackend,
		provider outbound.AIService,
	) *healthcheck.HealthCheck {
		health := healthcheck.New(cfg.App.Version, log)
		health.Register("database", healthcheck.NewGormChecker(db))
		if pg.Pool != nil {
			health.Register("postgres_pool", healthcheck.NewPoolChecker(pg.Pool))
		}
		if backend.Client != nil {
			health.Register("redis", healthcheck.NewRedisChecker(backend.Client))
		}
		health.Register("openfoodfacts", healthcheck.NewExternalServiceChecker(
			"openfoodfacts", cfg.Nutrition.OpenFoodFactsBaseURL, cfg.Nutrition.Timeout))
		health.Register("ai_provider", healthcheck.NewCustomChecker("ai_provider",
			func(ctx context.Context) (healthcheck.Status, string) {
				if !provider.Available() {
					return healthcheck.StatusDegraded, "no provider credentials configured"
				}
				return healthcheck.StatusHealthy, provider.Name()
			}))
		return health
	},

	func(
		cfg *config.Config,
		log *zap.Logger,
		users inbound.UserService,
		foods inbound.FoodService,
		scanner inbound.BarcodeService,
		dash inbound.DashboardService,
		recs inbound.RecommendationService,
		generator *demo.Generator,
		auth *security.AuthService,
		validator *security.ValidationService,
		metrics *monitoring.MetricsCollector,
		health *healthcheck.HealthCheck,
	) *server.Server {
		return server.NewServer(cfg, log, server.Services{
			Users:           users,
			Foods:           foods,
			Barcode:         scanner,
			Dashboard:       dash,
			Recommendations: recs,
			Demo:            generator,
		}, auth, validator, metrics, health)
	},
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks starts the HTTP server on application start
// and drains connections on stop
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Platewise",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Platewise")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
