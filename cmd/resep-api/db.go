package main

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

func connectPostgres(cfg DatabaseConfig) (*sqlx.DB, error) {
	connString := fmt.Sprintf("user=%s dbname=%s sslmode=%s password=%s host=%s port=%d",
		cfg.User,
		cfg.Name,
		cfg.SSLMode,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	var db *sqlx.DB
	var err error
	for attempt := 0; attempt <= cfg.ConnectRetry; attempt++ {
		if attempt > 0 {
			log.Warn().Msgf("Retrying postgres connection in %v (attempt %v/%v)", cfg.RetryDelay, attempt, cfg.ConnectRetry)
			time.Sleep(cfg.RetryDelay)
		}
		db, err = sqlx.Connect("postgres", connString)
		if err == nil {
			return db, nil
		}
	}
	return nil, fmt.Errorf("connect postgres: %w", err)
}
