package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	_ "github.com/lib/pq"

	"rentout-backend/internal/config"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/migration"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Migration CLI started", "command", command)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	m, err := migration.New(db)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step", "force":
		if len(args) < 2 {
			log.Fatalf("Usage: migrate %s <n>", command)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatalf("Invalid number %q", args[1])
		}
		if command == "step" {
			err = m.Steps(n)
		} else {
			err = m.Force(n)
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr == nil {
			logger.Info("Current migration version", "version", version, "dirty", dirty)
		}
		err = verr
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Migration command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [-config path] <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  up            Apply all pending migrations")
	fmt.Println("  down          Roll back all migrations")
	fmt.Println("  step <n>      Apply n migrations (negative rolls back)")
	fmt.Println("  force <v>     Set version without migrating")
	fmt.Println("  version       Show the current version")
}
