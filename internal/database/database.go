package database

import (
	"fmt"

	"interviewd/internal/config"
	"interviewd/internal/logging"
	"interviewd/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Route GORM's own logging through zap
	gormLogger := logging.NewGormZapLogger(log)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.Session{},
		&models.Turn{},
		&models.EngagementSample{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// Bounded-window reads over samples are the hot path for tone.
	samplesIndex := `CREATE INDEX IF NOT EXISTS idx_samples_session_time ON engagement_samples (session_id, created_at DESC);`
	if err := DB.Exec(samplesIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on engagement_samples", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
