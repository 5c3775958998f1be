package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jsphweid/chordex/model"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS piano_chords (
	id TEXT PRIMARY KEY,
	chord_name TEXT NOT NULL,
	key_signature TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '[]',
	finger_positions TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	inversion INTEGER NOT NULL DEFAULT 0,
	root_name TEXT NOT NULL DEFAULT '',
	chord_type TEXT NOT NULL DEFAULT '',
	root_note TEXT NOT NULL DEFAULT '',
	intervals TEXT NOT NULL DEFAULT '[]',
	chord_name_fr TEXT NOT NULL DEFAULT '',
	description_fr TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS piano_chords_chord_name ON piano_chords (chord_name);`

// SQLiteStore keeps the catalog in a local SQLite file. List columns are
// stored as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory catalog.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection, or every ":memory:" connection would see its own database
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: sqlDB}, nil
}

func (s *SQLiteStore) ListChords(ctx context.Context) ([]model.CatalogRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, chord_name, key_signature, difficulty,
		notes, finger_positions, description, inversion, root_name, chord_type,
		root_note, intervals, chord_name_fr, description_fr
		FROM piano_chords ORDER BY chord_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.CatalogRow
	for rows.Next() {
		var r model.CatalogRow
		var notes, fingers, intervals string
		if err := rows.Scan(&r.ID, &r.ChordName, &r.KeySignature, &r.Difficulty,
			&notes, &fingers, &r.Description, &r.Inversion, &r.RootName, &r.ChordType,
			&r.RootNote, &intervals, &r.ChordNameFr, &r.DescriptionFr); err != nil {
			return nil, err
		}
		if err := unmarshalColumns(r.ID, notes, &r.Notes, fingers, &r.FingerPositions, intervals, &r.Intervals); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func unmarshalColumns(id string, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		text := pairs[i].(string)
		if err := json.Unmarshal([]byte(text), pairs[i+1]); err != nil {
			return fmt.Errorf("row %s: %w", id, err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertChords(ctx context.Context, rows []model.CatalogRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO piano_chords (id, chord_name,
		key_signature, difficulty, notes, finger_positions, description, inversion,
		root_name, chord_type, root_note, intervals, chord_name_fr, description_fr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			chord_name = excluded.chord_name,
			key_signature = excluded.key_signature,
			difficulty = excluded.difficulty,
			notes = excluded.notes,
			finger_positions = excluded.finger_positions,
			description = excluded.description,
			inversion = excluded.inversion,
			root_name = excluded.root_name,
			chord_type = excluded.chord_type,
			root_note = excluded.root_note,
			intervals = excluded.intervals,
			chord_name_fr = excluded.chord_name_fr,
			description_fr = excluded.description_fr`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		notes, _ := json.Marshal(orEmpty(r.Notes))
		fingers, _ := json.Marshal(orEmpty(r.FingerPositions))
		intervals, _ := json.Marshal(orEmpty(r.Intervals))
		if _, err := stmt.ExecContext(ctx, r.ID, r.ChordName, r.KeySignature, r.Difficulty,
			string(notes), string(fingers), r.Description, r.Inversion, r.RootName,
			r.ChordType, r.RootNote, string(intervals), r.ChordNameFr, r.DescriptionFr); err != nil {
			return fmt.Errorf("upserting %s: %w", r.ChordName, err)
		}
	}
	return tx.Commit()
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *SQLiteStore) UpdateNotes(ctx context.Context, id string, notes []string) error {
	data, _ := json.Marshal(orEmpty(notes))
	res, err := s.db.ExecContext(ctx, `UPDATE piano_chords SET notes = ? WHERE id = ?`, string(data), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *SQLiteStore) DeleteChords(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM piano_chords WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
