package main

import (
	"flag"
	"log"
	"os"

	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	drop := flag.Bool("drop", false, "drop all tables before migrating (dev only)")
	flag.Parse()

	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.EmailVerificationToken{},
		&model.UserRefreshToken{},
		&model.CustomAgent{},
		&model.ChatTurn{},
		&model.ProviderKey{},
		&model.UsageStat{},
		&model.AiSetting{},
	}

	if *drop {
		log.Println("Step 0: Dropping existing tables (--drop)...")
		if err := db.Migrator().DropTable(models...); err != nil {
			log.Printf("Warn: Drop failed: %v. Continuing...", err)
		}
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views
	log.Println("Step 3: Creating Views...")

	postMigrationSQL := []string{
		// View: user_usage_overview
		`CREATE OR REPLACE VIEW user_usage_overview AS
		 SELECT u.id AS user_id, u.full_name, u.email,
		        COALESCE(SUM(us.message_count), 0) AS total_messages,
		        COALESCE(SUM(us.prompt_tokens + us.completion_tokens), 0) AS total_tokens,
		        MAX(us.day) AS last_active_day
		 FROM users u
		 LEFT JOIN usage_stats us ON us.user_id = u.id
		 WHERE u.deleted_at IS NULL
		 GROUP BY u.id, u.full_name, u.email;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
