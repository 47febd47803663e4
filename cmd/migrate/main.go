// Command migrate applies or inspects database schema migrations without
// starting the server. The server applies migrations on boot; this tool
// exists for deploy pipelines that migrate ahead of the rollout.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/NoDrammaCode/nodramma-back/internal/adapter/postgres"
)

func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "PostgreSQL URL (or set DATABASE_URL env)")
		action      = flag.String("action", "apply", "Action to run: apply or status")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	slog.Info("Connected to database", "url", sanitizeURL(*databaseURL))

	switch *action {
	case "apply":
		start := time.Now()
		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		version, err := postgres.MigrationVersion(ctx, pool)
		if err != nil {
			log.Fatalf("Failed to read schema version: %v", err)
		}
		slog.Info("Migrations applied",
			"schema_version", version,
			"duration_ms", time.Since(start).Milliseconds())
	case "status":
		version, err := postgres.MigrationVersion(ctx, pool)
		if err != nil {
			log.Fatalf("Failed to read schema version: %v", err)
		}
		slog.Info("Schema status", "schema_version", version)
	default:
		log.Fatalf("Unknown action %q (expected apply or status)", *action)
	}
}

func sanitizeURL(url string) string {
	// Hide password in the URL for logging
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) == 2 {
			credParts := strings.Split(parts[0], ":")
			if len(credParts) >= 2 {
				return credParts[0] + ":***@" + parts[1]
			}
		}
	}
	return url
}
