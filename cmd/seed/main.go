// Package main provides the database seeding tool for local development
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/platewise/v1/internal/application/demo"
	"github.com/platewise/v1/internal/infrastructure/config"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/infrastructure/persistence/sqlite"
	"github.com/platewise/v1/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		months     = flag.Int("months", 0, "months of demo food logs to generate for the demo user")
		seed       = flag.Int64("seed", 0, "random seed for demo data, 0 for random")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync() // nolint:errcheck

	dbPath := ":memory:"
	if cfg.Database.Database != "" {
		dbPath = cfg.Database.Database + ".db"
	}
	if dbPath == ":memory:" {
		log.Fatal("seeding an in-memory database has no effect, set database.database in config")
	}

	db, err := sqlite.SetupDatabase(dbPath, gormLogger.Warn)
	if err != nil {
		zapLogger.Fatal("failed to open database", zap.Error(err))
	}

	if err := sqlite.SeedDatabase(db); err != nil {
		zapLogger.Fatal("failed to seed database", zap.Error(err))
	}
	fmt.Printf("seeded %s with the demo account and staple foods\n", dbPath)

	if *months <= 0 {
		return
	}

	ctx := context.Background()
	users := gormRepo.NewUserRepository(db)
	demoUser, err := users.FindByEmail(ctx, sqlite.DemoUserEmail)
	if err != nil {
		zapLogger.Fatal("demo user not found", zap.Error(err))
	}

	generator := demo.NewGenerator(
		gormRepo.NewFoodRepository(db),
		gormRepo.NewFoodLogRepository(db),
		*seed,
		zapLogger,
	)

	result, err := generator.Generate(ctx, demoUser.ID(), *months)
	if err != nil {
		zapLogger.Fatal("failed to generate demo logs", zap.Error(err))
	}
	fmt.Printf("generated %d food logs across %d days (avg %d kcal/day)\n",
		result.LogsCreated, result.DaysWithLogs, result.AvgDailyCalories)
}
