// Package main provides the database migration tool
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/persistence/migrations"
	"github.com/platewise/v1/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		down       = flag.Bool("down", false, "roll back one migration instead of migrating up")
		forceTo    = flag.String("force", "", "force the schema version without running migrations")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatal("migrations require the postgres driver, sqlite schemas are managed automatically")
	}

	zapLogger, err := logger.New(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync() // nolint:errcheck

	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		zapLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := migrations.New(db, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch {
	case *forceTo != "":
		version, err := strconv.Atoi(*forceTo)
		if err != nil {
			zapLogger.Fatal("force requires a numeric version", zap.String("value", *forceTo))
		}
		if err := migrator.Force(version); err != nil {
			zapLogger.Fatal("failed to force version", zap.Error(err))
		}
		fmt.Printf("schema version forced to %d\n", version)
	case *down:
		if err := migrator.Down(); err != nil {
			zapLogger.Fatal("failed to roll back", zap.Error(err))
		}
		fmt.Println("rolled back one migration")
	default:
		if err := migrator.Up(); err != nil {
			zapLogger.Fatal("migration failed", zap.Error(err))
		}
		version, dirty, err := migrator.Version()
		if err != nil {
			zapLogger.Warn("failed to read schema version", zap.Error(err))
			os.Exit(0)
		}
		fmt.Printf("schema at version %d (dirty=%v)\n", version, dirty)
	}
}
