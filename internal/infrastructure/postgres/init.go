package postgres

import (
	"log"

	"github.com/LavaJover/shvark-upi-service/internal/config"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.UPIConfig) *gorm.DB {
	dsn := cfg.UPIDB.Dsn
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the order repository maps to the
	// UTR collision signal.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.OrderModel{}, &models.AuditEntryModel{}, &models.SystemSettingsModel{})

	return db
}
