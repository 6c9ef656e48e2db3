package store

import (
	"database/sql"
	"fmt"
	"sort"
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver
)

var inMemoryDBCounter atomic.Uint64

// config holds SQLite PRAGMA configuration for a Store.
type config struct {
	pragmas map[string]string
}

// StoreOption configures a Store at construction time.
type StoreOption func(*config)

// WithPragma overrides a SQLite PRAGMA setting, e.g.
// WithPragma("synchronous", "NORMAL").
func WithPragma(key, value string) StoreOption {
	return func(c *config) {
		if c.pragmas == nil {
			c.pragmas = make(map[string]string)
		}
		c.pragmas[key] = value
	}
}

func defaultConfig() *config {
	return &config{
		pragmas: map[string]string{
			"journal_mode": "WAL",
			"synchronous":  "OFF",
			"cache_size":   "-64000",
			"temp_store":   "MEMORY",
			"busy_timeout": "5000",
			"foreign_keys": "OFF",
		},
	}
}

// NewSQLite opens a SQLite-backed Store at dbPath. Pass ":memory:" for an
// in-memory database; each call gets its own isolated in-memory instance.
func NewSQLite(dbPath string, opts ...StoreOption) (*Store, error) {
	if dbPath == ":memory:" {
		id := inMemoryDBCounter.Add(1)
		dbPath = fmt.Sprintf("file:rdf2020check_%d?mode=memory&cache=shared", id)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	keys := make([]string, 0, len(cfg.pragmas))
	for k := range cfg.pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("PRAGMA %s=%s", k, cfg.pragmas[k])
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: set pragma %q: %w", stmt, err)
		}
	}

	s := &Store{db: db, dialect: sqliteDialect{}}
	if err := s.initSchemaAndStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
