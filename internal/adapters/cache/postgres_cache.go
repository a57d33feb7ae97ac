package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS explanation_cache (
			cache_key VARCHAR(64) PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_explanation_cache_expires_at ON explanation_cache(expires_at)`,
	},
	upsert: `INSERT INTO explanation_cache (cache_key, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at`,
	get: `SELECT payload, created_at, expires_at FROM explanation_cache
		WHERE cache_key = $1 AND expires_at > $2`,
	delete:  `DELETE FROM explanation_cache WHERE cache_key = $1`,
	cleanup: `DELETE FROM explanation_cache WHERE expires_at <= $1`,
}

// NewPostgresCache creates a new PostgreSQL cache
func NewPostgresCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	return newSQLCache(db, postgresDialect, logger, cleanupFreq)
}
