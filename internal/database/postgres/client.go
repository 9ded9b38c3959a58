package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm открывает GORM поверх уже установленного пула соединений,
// миграции к этому моменту применены клиентом sqlx
func OpenGorm(sqlDB *sql.DB, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Error("failed to initialize GORM", "error", err)
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	logger.Info("GORM initialized on shared PostgreSQL pool")
	return db, nil
}
