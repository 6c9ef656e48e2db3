package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// NewPostgres opens a PostgreSQL-backed Store using a standard connection
// string.
func NewPostgres(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	s := &Store{db: db, dialect: postgresDialect{}}
	if err := s.initSchemaAndStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresFromDB wraps an existing *sql.DB. The caller retains ownership
// of db and must close it separately.
func NewPostgresFromDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db, dialect: postgresDialect{}}
	if err := s.initSchemaAndStatements(); err != nil {
		return nil, err
	}
	return s, nil
}
