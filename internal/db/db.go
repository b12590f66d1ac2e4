package db

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"osiedle/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=osiedle port=5432 sslmode=disable TimeZone=Europe/Warsaw"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database migration completed")

	seedAdmin(log)
}

// Migrate runs AutoMigrate for every model. Split out so tests can apply
// the same schema to their own database.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Announcement{},
		&models.Event{},
		&models.Gallery{},
		&models.Photo{},
		&models.Poll{},
		&models.Choice{},
		&models.PollVote{},
		&models.Rating{},
		&models.Comment{},
	)
}

func seedAdmin(log *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		log.Info("admin already seeded, skipping")
		return
	}

	admin := models.User{
		Username: "admin",
		Email:    email,
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Warn("failed to seed admin user", zap.Error(err))
		return
	}
	log.Info("initial admin user created", zap.String("email", email))
}
