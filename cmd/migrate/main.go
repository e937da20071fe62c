package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/ogurasousui/hr-records/internal/platform/db/migration"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
		seedsDir      = flag.String("seeds", "", "directory containing seed files applied after up (tracked in a separate table)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	_ = godotenv.Load(".env")

	boot := logger.Bootstrap()

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		boot.Fatal("failed to load config", "error", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		boot.Fatal("failed to build logger", "error", err)
	}
	defer log.Sync()

	dsn := cfg.Database.DSN()
	if err := migration.Run(action, migration.Options{Dir: *migrationsDir, DSN: dsn}, log); err != nil {
		log.Fatal("migration failed", "action", action, "error", err)
	}

	if *seedsDir != "" && action == "up" {
		opts := migration.Options{Dir: *seedsDir, DSN: dsn, Table: migration.SeedsTable}
		if err := migration.Run("up", opts, log); err != nil {
			log.Fatal("seeding failed", "dir", *seedsDir, "error", err)
		}
	}

	log.Info("migration completed", "action", action)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
