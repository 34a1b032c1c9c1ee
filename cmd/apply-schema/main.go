// Applies internal/repository/schema.sql to the configured database.
// Statements are idempotent (IF NOT EXISTS), so re-running is safe.
package main

import (
	"fmt"
	"os"

	"evalboard/internal/config"
	"evalboard/internal/database"
	"evalboard/internal/repository"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(repository.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("schema applied")
}
