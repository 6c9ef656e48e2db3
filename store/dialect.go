package store

import "fmt"

// dialect generates the database-specific SQL the Store issues. It covers
// every statement Store needs, unlike a dialect that only handles schema
// creation and insertion and leaves lookup/removal SQL to be hand-rolled
// elsewhere.
type dialect interface {
	createTableSQL() string
	createIndexSQL() string
	addSQL() string
	removeSQL() string
	containsSQL() string
	getFactsBaseSQL() string
	batchInsertSQL(rows int) string
}

type sqliteDialect struct{}

func (sqliteDialect) createTableSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS triples (
			predicate_key TEXT NOT NULL,
			triple_hash BIGINT NOT NULL,
			subject BLOB NOT NULL,
			object BLOB NOT NULL,
			PRIMARY KEY(triple_hash)
		) WITHOUT ROWID;
	`
}

func (sqliteDialect) createIndexSQL() string {
	return `CREATE INDEX IF NOT EXISTS idx_predicate_key ON triples(predicate_key);`
}

func (sqliteDialect) addSQL() string {
	return `
		INSERT INTO triples (predicate_key, triple_hash, subject, object)
		VALUES (?, ?, jsonb(?), jsonb(?))
		ON CONFLICT DO NOTHING
	`
}

func (sqliteDialect) removeSQL() string {
	return `DELETE FROM triples WHERE triple_hash = ?`
}

func (sqliteDialect) containsSQL() string {
	return `SELECT COUNT(*) FROM triples WHERE triple_hash = ?`
}

func (sqliteDialect) getFactsBaseSQL() string {
	// subject/object are stored via jsonb(); json() converts the binary
	// JSONB representation back to text for scanning.
	return `SELECT json(subject), json(object) FROM triples WHERE predicate_key = ?`
}

func (sqliteDialect) batchInsertSQL(rows int) string {
	values := ""
	for i := 0; i < rows; i++ {
		if i > 0 {
			values += ", "
		}
		values += "(?, ?, jsonb(?), jsonb(?))"
	}
	return `INSERT INTO triples (predicate_key, triple_hash, subject, object) VALUES ` + values + ` ON CONFLICT DO NOTHING`
}

type postgresDialect struct{}

func (postgresDialect) createTableSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS triples (
			predicate_key TEXT NOT NULL,
			triple_hash BIGINT NOT NULL,
			subject JSONB NOT NULL,
			object JSONB NOT NULL,
			PRIMARY KEY(triple_hash)
		);
	`
}

func (postgresDialect) createIndexSQL() string {
	return `CREATE INDEX IF NOT EXISTS idx_predicate_key ON triples(predicate_key);`
}

func (postgresDialect) addSQL() string {
	return `
		INSERT INTO triples (predicate_key, triple_hash, subject, object)
		VALUES ($1, $2, $3::jsonb, $4::jsonb)
		ON CONFLICT (triple_hash) DO NOTHING
	`
}

func (postgresDialect) removeSQL() string {
	return `DELETE FROM triples WHERE triple_hash = $1`
}

func (postgresDialect) containsSQL() string {
	return `SELECT COUNT(*) FROM triples WHERE triple_hash = $1`
}

func (postgresDialect) getFactsBaseSQL() string {
	return `SELECT subject, object FROM triples WHERE predicate_key = $1`
}

func (postgresDialect) batchInsertSQL(rows int) string {
	values := ""
	n := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			values += ", "
		}
		values += fmt.Sprintf("($%d, $%d, $%d::jsonb, $%d::jsonb)", n, n+1, n+2, n+3)
		n += 4
	}
	return `INSERT INTO triples (predicate_key, triple_hash, subject, object) VALUES ` + values + ` ON CONFLICT (triple_hash) DO NOTHING`
}
