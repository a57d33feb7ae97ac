package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

// dialect holds the statements that differ between SQL engines
type dialect struct {
	name    string
	schema  []string
	upsert  string
	get     string
	delete  string
	cleanup string
}

// SQLCache is a database/sql implementation of the CacheRepository interface.
// Explanations are stored as JSON, timestamps as Unix seconds.
type SQLCache struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	cleaner *cleaner
}

func newSQLCache(db *sql.DB, d dialect, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	c := &SQLCache{
		db:      db,
		dialect: d,
		logger:  logger,
	}
	c.cleaner = startCleaner(c, cleanupFreq, logger)
	return c, nil
}

// Get retrieves a cached entry by key
func (c *SQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var payload string
	var createdAt, expiresAt int64

	err := c.db.QueryRowContext(ctx, c.dialect.get, key, time.Now().Unix()).
		Scan(&payload, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry := &core.CacheEntry{
		Key:       key,
		CreatedAt: time.Unix(createdAt, 0),
		ExpiresAt: time.Unix(expiresAt, 0),
	}
	if err := json.Unmarshal([]byte(payload), &entry.Explanation); err != nil {
		return nil, fmt.Errorf("failed to decode cached explanation: %w", err)
	}
	return entry, nil
}

// Set stores a cache entry, replacing any entry with the same key
func (c *SQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	payload, err := json.Marshal(entry.Explanation)
	if err != nil {
		return fmt.Errorf("failed to encode explanation: %w", err)
	}

	_, err = c.db.ExecContext(ctx, c.dialect.upsert,
		entry.Key, string(payload), entry.CreatedAt.Unix(), entry.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.delete, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, c.dialect.cleanup, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries",
			zap.String("dialect", c.dialect.name),
			zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLCache) Stop() {
	c.cleaner.stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close cache database",
			zap.String("dialect", c.dialect.name),
			zap.Error(err))
	}
}
