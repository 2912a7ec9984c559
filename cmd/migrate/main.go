// Package main is the schema migration utility for the re-engagement engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/salesloop/reengage/internal/infrastructure/migrate"
)

const defaultMigrationsPath = "./migrations"

func main() {
	var (
		migrationsPath string
		steps          int
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory")
	flag.IntVar(&steps, "steps", 1, "Number of migrations for the down command")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("Please specify a command: up, down, or version")
	}

	runner := migrate.NewRunner(&migrate.Config{
		DatabaseURL:    databaseURL,
		MigrationsPath: migrationsPath,
	}, nil)

	switch args[0] {
	case "up":
		if err := runner.Up(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		printVersion(runner)

	case "down":
		if err := runner.Steps(-steps); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		printVersion(runner)

	case "version":
		printVersion(runner)

	default:
		log.Fatalf("Unknown command: %s. Use 'up', 'down', or 'version'", args[0])
	}
}

func printVersion(runner *migrate.Runner) {
	version, dirty, err := runner.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}
	if dirty {
		fmt.Printf("Current version: %d (dirty)\n", version)
		return
	}
	fmt.Printf("Current version: %d\n", version)
}
