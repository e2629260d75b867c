// Package store persists an inferred relationship graph to SQLite and
// loads it back, giving a later run a way to seed from a prior run's
// output in addition to (or instead of) a flat relationship file.
// Grounded on the teacher's readers.go SqliteReader, which opens the
// same driver the same way for its own (read-only, warts-derived)
// annotation table.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rvarloot/asrank"
)

// Store wraps a SQLite database holding one relationships table.
type Store struct {
	filename string
}

// Open returns a Store bound to filename. The file (and table) is
// created on first Save if it does not already exist.
func Open(filename string) *Store {
	return &Store{filename: filename}
}

// Save truncates and rewrites the relationships table from data's
// current state, inside one transaction: one row per undirected link
// (a < b), mirroring the emitter's canonical a|b|r ordering.
func (s *Store) Save(data *asrank.Data) error {
	db, err := sql.Open("sqlite3", s.filename)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS relationships (
		a INTEGER NOT NULL,
		b INTEGER NOT NULL,
		relationship INTEGER NOT NULL,
		PRIMARY KEY (a, b)
	)`); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		tx.Rollback()
		return fmt.Errorf("store: truncate: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO relationships (a, b, relationship) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, a := range data.ASNumbers() {
		da := data.Get(a)
		for b, link := range da.Neighbors {
			if a >= b {
				continue
			}
			if _, err := stmt.Exec(int64(a), int64(b), int64(link.Relationship)); err != nil {
				tx.Rollback()
				return fmt.Errorf("store: insert %d|%d: %w", a, b, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads back every persisted relationship, keyed by the ordered
// (a, b) pair exactly as stored (a < b). The result is directly usable
// as a --rel preload source.
func (s *Store) Load() (map[[2]asrank.AS]asrank.TypeOfRelationship, error) {
	db, err := sql.Open("sqlite3", s.filename)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT a, b, relationship FROM relationships")
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	out := make(map[[2]asrank.AS]asrank.TypeOfRelationship)
	for rows.Next() {
		var a, b, rel int64
		if err := rows.Scan(&a, &b, &rel); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		t, ok := asrank.ParseRelationship(int(rel))
		if !ok {
			continue
		}
		out[[2]asrank.AS{asrank.AS(a), asrank.AS(b)}] = t
	}
	return out, rows.Err()
}
