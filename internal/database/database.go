package database

import (
	"fmt"

	"github.com/teamboard/teamboard-api/internal/config"
	"github.com/teamboard/teamboard-api/internal/logger"
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Get().Info().Str("host", cfg.DBHost).Str("database", cfg.DBName).Msg("database connection established")
	return nil
}

func Migrate() error {
	logger.Get().Info().Msg("running database migrations")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.ProjectLink{},
		&models.ProjectMember{},
		&models.TaskColumn{},
		&models.PriorityLevel{},
		&models.Tag{},
		&models.Task{},
		&models.FinancialAccount{},
		&models.TransactionCategory{},
		&models.FinancialTransaction{},
		&models.Budget{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Get().Info().Msg("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
