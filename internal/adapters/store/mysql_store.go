package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const mysqlBatchSize = 500

// MySQLStore keeps the disposable domain set in a MySQL table
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL with dsn
func NewMySQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	s, err := NewMySQLStoreFromDB(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMySQLStoreFromDB uses an open database handle and makes sure the table exists
func NewMySQLStoreFromDB(ctx context.Context, db *sql.DB, logger *zap.Logger) (*MySQLStore, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS disposable_domains (
			domain VARCHAR(253) NOT NULL PRIMARY KEY
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// IsMember reports whether domain is in the set
func (s *MySQLStore) IsMember(ctx context.Context, domain string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM disposable_domains WHERE domain = ?
	`, domain).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query disposable domains: %w", err)
	}
	return true, nil
}

// ReplaceAll swaps the table contents inside one transaction. Readers keep
// seeing the committed set until the commit.
func (s *MySQLStore) ReplaceAll(ctx context.Context, domains []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM disposable_domains`); err != nil {
		return fmt.Errorf("failed to clear disposable domains: %w", err)
	}

	for start := 0; start < len(domains); start += mysqlBatchSize {
		batch := domains[start:min(start+mysqlBatchSize, len(domains))]

		placeholders := strings.TrimSuffix(strings.Repeat("(?),", len(batch)), ",")
		args := make([]interface{}, len(batch))
		for i, domain := range batch {
			args[i] = domain
		}

		query := "INSERT IGNORE INTO disposable_domains (domain) VALUES " + placeholders
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert disposable domains: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit disposable domains: %w", err)
	}

	s.logger.Info("Replaced disposable domain set", zap.Int("count", len(domains)))
	return nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
