// Package store provides SQL-backed persistence for a term.ClaimGraph,
// indexed by predicate. It is the durable complement to term.ClaimGraph,
// which is purely in-memory; prove.Prove works only on a term.ClaimGraph,
// so a stored graph is loaded whole with ToClaimGraph before proving.
package store

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"log"

	"bitbucket.org/creachadair/stringset"
	"github.com/dustin/go-humanize"
	"github.com/go-json-experiment/json"

	"github.com/dock-io/rdf2020check/term"
	"github.com/dock-io/rdf2020check/wire"
)

// Store persists a claim graph's triples, predicate-indexed. The zero value
// is not usable; construct one with NewSQLite or NewPostgres.
type Store struct {
	db      *sql.DB
	dialect dialect

	addStmt      *sql.Stmt
	removeStmt   *sql.Stmt
	containsStmt *sql.Stmt
}

func (s *Store) initSchemaAndStatements() error {
	if _, err := s.db.Exec(s.dialect.createTableSQL()); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}
	if _, err := s.db.Exec(s.dialect.createIndexSQL()); err != nil {
		return fmt.Errorf("store: create index: %w", err)
	}

	addStmt, err := s.db.Prepare(s.dialect.addSQL())
	if err != nil {
		return fmt.Errorf("store: prepare add: %w", err)
	}
	s.addStmt = addStmt

	removeStmt, err := s.db.Prepare(s.dialect.removeSQL())
	if err != nil {
		return fmt.Errorf("store: prepare remove: %w", err)
	}
	s.removeStmt = removeStmt

	containsStmt, err := s.db.Prepare(s.dialect.containsSQL())
	if err != nil {
		return fmt.Errorf("store: prepare contains: %w", err)
	}
	s.containsStmt = containsStmt

	return nil
}

// Add inserts a triple, returning true if it was not already present.
func (s *Store) Add(t term.Triple) bool {
	key, hash, subjJSON, objJSON, err := s.encode(t)
	if err != nil {
		log.Printf("store: failed to encode triple for Add: %v", err)
		return false
	}

	res, err := s.addStmt.Exec(key, hash, subjJSON, objJSON)
	if err != nil {
		log.Printf("store: failed to execute add: %v", err)
		return false
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return rowsAffected > 0
}

// Contains reports whether t is already present in the store.
func (s *Store) Contains(t term.Triple) bool {
	_, hash, _, _, err := s.encode(t)
	if err != nil {
		log.Printf("store: failed to encode triple for Contains: %v", err)
		return false
	}
	var count int
	if err := s.containsStmt.QueryRow(hash).Scan(&count); err != nil {
		log.Printf("store: failed to execute contains: %v", err)
		return false
	}
	return count > 0
}

// Remove deletes t, returning true if it was present.
func (s *Store) Remove(t term.Triple) bool {
	_, hash, _, _, err := s.encode(t)
	if err != nil {
		log.Printf("store: failed to encode triple for Remove: %v", err)
		return false
	}
	res, err := s.removeStmt.Exec(hash)
	if err != nil {
		log.Printf("store: failed to execute remove: %v", err)
		return false
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return rowsAffected > 0
}

// ByPredicate returns every stored triple whose predicate equals pred.
func (s *Store) ByPredicate(pred term.Term) ([]term.Triple, error) {
	key, err := s.predicateKey(pred)
	if err != nil {
		return nil, fmt.Errorf("store: encode predicate: %w", err)
	}

	rows, err := s.db.Query(s.dialect.getFactsBaseSQL(), key)
	if err != nil {
		return nil, fmt.Errorf("store: query by predicate: %w", err)
	}
	defer rows.Close()

	var out []term.Triple
	for rows.Next() {
		var subjJSON, objJSON string
		if err := rows.Scan(&subjJSON, &objJSON); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		subj, err := decodeTerm(subjJSON)
		if err != nil {
			return nil, fmt.Errorf("store: decode subject: %w", err)
		}
		obj, err := decodeTerm(objJSON)
		if err != nil {
			return nil, fmt.Errorf("store: decode object: %w", err)
		}
		out = append(out, term.Triple{Subject: subj, Predicate: pred, Object: obj})
	}
	return out, rows.Err()
}

// ListPredicates returns every distinct predicate term stored, in no
// particular order, deduplicated via a stringset keyed on the predicate's
// wire encoding.
func (s *Store) ListPredicates() ([]term.Term, error) {
	rows, err := s.db.Query(`SELECT DISTINCT predicate_key FROM triples`)
	if err != nil {
		return nil, fmt.Errorf("store: list predicates: %w", err)
	}
	defer rows.Close()

	seen := stringset.New()
	var out []term.Term
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("store: scan predicate row: %w", err)
		}
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		pred, err := decodeTerm(key)
		if err != nil {
			return nil, fmt.Errorf("store: decode predicate: %w", err)
		}
		out = append(out, pred)
	}
	return out, rows.Err()
}

// EstimateTripleCount returns the number of triples currently stored.
func (s *Store) EstimateTripleCount() int {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM triples`).Scan(&count); err != nil {
		log.Printf("store: failed to estimate triple count: %v", err)
		return 0
	}
	return count
}

// Merge bulk-inserts every triple of cg that the store does not already
// hold, batching rows into a bounded number of multi-row INSERT statements
// per transaction.
func (s *Store) Merge(cg *term.ClaimGraph) error {
	triples := cg.Triples()
	if len(triples) == 0 {
		return nil
	}

	type row struct {
		key, subjJSON, objJSON string
		hash                   int64
	}
	rows := make([]row, 0, len(triples))
	for _, t := range triples {
		key, hash, subjJSON, objJSON, err := s.encode(t)
		if err != nil {
			return fmt.Errorf("store: encode triple for merge: %w", err)
		}
		rows = append(rows, row{key, subjJSON, objJSON, hash})
	}

	const batchSize = 500
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		batch := rows[i:end]

		params := make([]any, 0, len(batch)*4)
		for _, r := range batch {
			params = append(params, r.key, r.hash, r.subjJSON, r.objJSON)
		}
		if _, err := tx.Exec(s.dialect.batchInsertSQL(len(batch)), params...); err != nil {
			return fmt.Errorf("store: batch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit merge transaction: %w", err)
	}
	log.Printf("store: merged %s triples", humanize.Comma(int64(len(rows))))
	return nil
}

// ToClaimGraph loads every stored triple into a fresh in-memory claim graph.
func (s *Store) ToClaimGraph() (*term.ClaimGraph, error) {
	preds, err := s.ListPredicates()
	if err != nil {
		return nil, err
	}
	cg := term.New()
	for _, pred := range preds {
		triples, err := s.ByPredicate(pred)
		if err != nil {
			return nil, err
		}
		for _, t := range triples {
			cg.Add(t)
		}
	}
	return cg, nil
}

// Close closes the prepared statements and the underlying connection.
func (s *Store) Close() error {
	if s.addStmt != nil {
		s.addStmt.Close()
	}
	if s.removeStmt != nil {
		s.removeStmt.Close()
	}
	if s.containsStmt != nil {
		s.containsStmt.Close()
	}
	return s.db.Close()
}

// encode returns the predicate key, triple hash, and the wire-format JSON
// encodings of a triple's subject and object.
func (s *Store) encode(t term.Triple) (key string, hash int64, subjJSON, objJSON string, err error) {
	key, err = s.predicateKey(t.Predicate)
	if err != nil {
		return "", 0, "", "", err
	}
	subjBytes, err := json.Marshal(wire.Term{Term: t.Subject})
	if err != nil {
		return "", 0, "", "", fmt.Errorf("marshal subject: %w", err)
	}
	objBytes, err := json.Marshal(wire.Term{Term: t.Object})
	if err != nil {
		return "", 0, "", "", fmt.Errorf("marshal object: %w", err)
	}

	h := fnv.New64a()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write(subjBytes)
	h.Write([]byte{0})
	h.Write(objBytes)

	return key, int64(h.Sum64()), string(subjBytes), string(objBytes), nil
}

func (s *Store) predicateKey(pred term.Term) (string, error) {
	data, err := json.Marshal(wire.Term{Term: pred})
	if err != nil {
		return "", fmt.Errorf("marshal predicate: %w", err)
	}
	return string(data), nil
}

func decodeTerm(data string) (term.Term, error) {
	var w wire.Term
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, err
	}
	return w.Term, nil
}
