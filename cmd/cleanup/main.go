package main

import (
	"context"
	"log"

	"empanelment/internal/config"
	"empanelment/internal/database"
	"empanelment/internal/repository"
)

// Removes expired and used verification codes. Intended for a cron job.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	codes := repository.NewVerificationCodeRepository(db)
	removed, err := codes.PurgeExpired(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("cleanup: removed %d verification code(s)", removed)
}
