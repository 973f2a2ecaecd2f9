package database

import (
	"fmt"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"
)

// Connect opens the Oracle connection pool and verifies it with a ping.
func Connect(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("oracle", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to oracle: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Get().Info("connected to oracle",
		zap.String("host", cfg.Host),
		zap.String("service", cfg.Service))
	return db, nil
}
