package main

import (
	"context"
	"log"

	"interview-coach/internal/config"
	"interview-coach/internal/database"
	"interview-coach/internal/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.String("config", "", "Path to config.yaml or the directory holding it")
	steps := pflag.Int("steps", 1, "Number of migrations to roll back with down")
	pflag.Parse()

	direction := "up"
	if pflag.NArg() > 0 {
		direction = pflag.Arg(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewPostgresDB(context.Background(), cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch direction {
	case "up":
		err = database.MigrateUp(db.DB, l)
	case "down":
		err = database.MigrateDown(db.DB, *steps, l)
	default:
		l.Fatal("Unknown direction, expected up or down", zap.String("direction", direction))
	}
	if err != nil {
		l.Fatal("Migration failed", zap.Error(err))
	}
}
