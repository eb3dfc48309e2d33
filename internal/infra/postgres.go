package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"tripplan/internal/models/db_models"
)

func InitPostgresql(dsn string) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return connectionPool, nil
}

// Migrate creates the tables owned by this service. poi_embeddings is expected to exist
// with the vector extension already installed.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.TravelPlan{},
		&db_models.POI{},
		&db_models.POIDetail{},
	)
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed successfully")
	}
}
