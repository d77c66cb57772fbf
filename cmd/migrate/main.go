// Command migrate applies the SQL schema migrations. It is a thin wrapper
// around golang-migrate so deployments and CI run the same migration path.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		databaseURL    string
		migrationsPath string
		command        string
	)

	flag.StringVar(&databaseURL, "database", "", "database URL (defaults to ROADCHECK_POSTGRES_DSN)")
	flag.StringVar(&migrationsPath, "path", "migrations", "path to migrations directory")
	flag.StringVar(&command, "command", "up", "migration command: up, down, version")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("ROADCHECK_POSTGRES_DSN")
	}
	if databaseURL == "" {
		log.Fatal("database URL is required: use -database or ROADCHECK_POSTGRES_DSN")
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		log.Fatalf("create migration instance: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("apply migrations: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("rollback migrations: %v", err)
		}
		log.Println("migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("read version: %v", err)
		}
		log.Printf("version %d (dirty: %v)", version, dirty)
	default:
		log.Fatalf("unknown command %q (use: up, down, version)", command)
	}
}
