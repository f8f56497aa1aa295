package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	migrationsPath, err = resolveMigrationsPath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		f, err := migration.Create(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", f.Version),
			zap.String("up_file", f.UpPath),
			zap.String("down_file", f.DownPath),
		)
		return
	case "list":
		files, err := migration.List(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(files) == 0 {
			log.Info("No migrations found")
			return
		}
		for _, f := range files {
			fmt.Printf("  %06d  %s\n", f.Version, f.Name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		n := 1
		if len(args) > 1 {
			if args[1] == "all" {
				n = 0
			} else if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
				log.Fatal("Invalid step count", zap.String("value", args[1]))
			}
		}
		if err := m.Down(n); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "status":
		status, err := m.Status()
		if err != nil {
			log.Fatal("Failed to get migration status", zap.Error(err))
		}
		if !status.Applied {
			log.Info("No migrations applied")
			return
		}
		log.Info("Current migration version",
			zap.Uint("version", status.Version),
			zap.Bool("dirty", status.Dirty),
		)

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the directory two
// levels above the executable (bin/<os>/migrate layouts).
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

func printUsage() {
	fmt.Println(`Ledgerbook Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down [n|all]          Roll back n migrations (default 1) or all of them
  status                Show the current schema version
  force <version>       Record a version without running it (clears a dirty state)
  create <name> [desc]  Create the next migration file pair
  list                  List migrations on disk

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  LEDGER_DATABASE_HOST, LEDGER_DATABASE_PORT, LEDGER_DATABASE_USER,
  LEDGER_DATABASE_PASSWORD, LEDGER_DATABASE_DBNAME, LEDGER_DATABASE_SSLMODE

Examples:
  migrate up
  migrate down 1
  migrate create add_payment_notes "Add notes to payments"`)
}
