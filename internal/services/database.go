package services

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// InitDB initializes the database connection with connection pooling
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Credit{},
		&models.Installment{},
		&models.Payment{},
		&models.Fine{},
		&models.FinePayment{},
		&models.Discount{},
		&models.ScheduledTask{},
		&models.ScheduledTaskHistory{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}
