package main

import (
	"flag"
	"log"

	"github.com/pressly/goose/v3"

	"peer_tutoring/internal/config"
	"peer_tutoring/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status, seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "seed":
		// Demo data keeps its own version table so it never
		// interleaves with schema migrations.
		goose.SetTableName("goose_seed_version")
		err = goose.Up(db, "seed")
	default:
		log.Fatalf("Unknown command: %s", *command)
	}

	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
