package main

import (
	"context"
	"errors"
	"log"

	"empanelment/internal/config"
	"empanelment/internal/database"
	"empanelment/internal/domain"
	"empanelment/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds demo accounts for local development. Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	seed := []struct {
		email    string
		password string
		name     string
		role     domain.UserRole
	}{
		{"vendor@example.com", "vendor12345", "Demo Vendor", domain.RoleVendor},
		{"reviewer@example.com", "reviewer12345", "Demo Reviewer", domain.RoleReviewer},
		{"admin@example.com", "admin12345", "Demo Admin", domain.RoleAdmin},
	}

	for _, s := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		u := &domain.User{
			Email:        s.email,
			PasswordHash: string(hash),
			Name:         s.name,
			Role:         s.role,
		}
		err = users.Create(ctx, u)
		if errors.Is(err, repository.ErrEmailTaken) {
			log.Printf("seed: %s already exists, skipping", s.email)
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("seed: created %s (%s)", s.email, s.role)
	}
}
