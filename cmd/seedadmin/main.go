// Command seedadmin creates the initial administrator account. It exits
// cleanly when any admin already exists, so it is safe to run at every
// deploy.
package main

import (
	"context"
	"log"
	"os"

	"github.com/chepyr/go-project-tracker/internal/config"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	dbConn, err := db.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	users := db.NewUserRepository(dbConn)
	exists, err := users.HasRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}
	if exists {
		log.Println("Admin already exists, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &models.User{
		ID:           uuid.New(),
		Name:         "System Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Println("Admin created successfully")
}
