package main

import (
	"log"
	"os"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	admin := seedAdminUser(db)
	seedAiSettings(db)
	if admin != nil {
		seedDemoAgent(db, admin)
	}

	log.Println("✅ Seeding completed!")
}

func seedAdminUser(db *gorm.DB) *model.User {
	log.Println("Seeding Admin User...")

	email := getEnv("ADMIN_EMAIL", "admin@assistant.local")
	password := getEnv("ADMIN_PASSWORD", "admin123")

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin '%s' already exists, skipping...", email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return nil
	}
	hashStr := string(hash)

	admin := model.User{
		Email:         email,
		PasswordHash:  &hashStr,
		FullName:      "Administrator",
		Role:          string(entity.UserRoleAdmin),
		Status:        string(entity.UserStatusActive),
		EmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return nil
	}

	log.Printf("Created admin user: %s", email)
	return &admin
}

func seedAiSettings(db *gorm.DB) {
	log.Println("Seeding AI Settings...")

	settings := []model.AiSetting{
		{Key: entity.AiSettingKeyDefaultProvider, Value: "openai", Description: "Completion provider used when no per-user key overrides it"},
		{Key: entity.AiSettingKeyDefaultModel, Value: "gpt-4", Description: "Model passed to the completion API"},
		{Key: entity.AiSettingKeyMaxTokens, Value: "1500", Description: "Maximum completion tokens per response"},
		{Key: entity.AiSettingKeyMaxHistoryTurns, Value: "6", Description: "Most recent turns kept when building the prompt"},
		{Key: entity.AiSettingKeyMaxContextTokens, Value: "0", Description: "Token budget for history, 0 disables"},
	}

	for _, s := range settings {
		// Check if setting with this key already exists
		var existing model.AiSetting
		if err := db.Where("key = ?", s.Key).First(&existing).Error; err == nil {
			log.Printf("Setting '%s' already exists, skipping...", s.Key)
			continue
		}

		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error creating setting '%s': %v", s.Key, err)
		} else {
			log.Printf("Created setting: %s = %s", s.Key, s.Value)
		}
	}
}

func seedDemoAgent(db *gorm.DB, owner *model.User) {
	log.Println("Seeding Demo Custom Agent...")

	var existing model.CustomAgent
	if err := db.Where("owner_id = ? AND name = ?", owner.Id, "Grammar Polisher").First(&existing).Error; err == nil {
		log.Println("Demo agent already exists, skipping...")
		return
	}

	demo := model.CustomAgent{
		OwnerId:      owner.Id,
		Name:         "Grammar Polisher",
		Emoji:        "📝",
		Category:     "Writing",
		Description:  "Rewrites text with corrected grammar and a cleaner tone",
		SystemPrompt: "You are a meticulous editor. Rewrite the user's text with correct grammar, spelling and punctuation while keeping the original meaning and voice. Point out the most important fixes in one short list.",
		Temperature:  0.3,
		Specialties:  datatypes.JSON([]byte(`["grammar", "tone", "clarity"]`)),
		QuickActions: datatypes.JSON([]byte(`["Fix this paragraph", "Make it more formal", "Shorten it"]`)),
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Printf("Error creating demo agent: %v", err)
		return
	}

	log.Printf("Created demo agent: %s (owner %s)", demo.Name, owner.Email)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
