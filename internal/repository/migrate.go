package repository

import (
	"github.com/create141/Create-fi/internal/models"

	"gorm.io/gorm"
)

// Migrate 建表或补齐缺失的列和索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SwapTransaction{},
		&models.LimitOrder{},
		&models.PortfolioSnapshot{},
	)
}
