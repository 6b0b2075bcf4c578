package lexicon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/sense"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS synsets (
	id  INTEGER PRIMARY KEY,
	pos TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS words (
	word   TEXT NOT NULL,
	stem   TEXT NOT NULL,
	synset INTEGER NOT NULL REFERENCES synsets(id),
	rank   INTEGER NOT NULL,
	PRIMARY KEY (word, synset)
);
CREATE INDEX IF NOT EXISTS words_stem ON words(stem, rank);
CREATE TABLE IF NOT EXISTS edges (
	kind TEXT NOT NULL,
	src  INTEGER NOT NULL,
	dst  INTEGER NOT NULL,
	PRIMARY KEY (kind, src, dst)
);
`

// edge kinds; "part" edges run from a whole to its part
const (
	edgeHypernym = "hypernym"
	edgePart     = "part"
	edgeAntonym  = "antonym"
	edgeDisjoint = "disjoint"
)

const reachQuery = `
WITH RECURSIVE reach(id) AS (
	SELECT dst FROM edges WHERE kind = ?1 AND src = ?2
	UNION
	SELECT e.dst FROM edges e JOIN reach r ON e.src = r.id WHERE e.kind = ?1
)
SELECT EXISTS (SELECT 1 FROM reach WHERE id = ?3)`

const disjointQuery = `
WITH RECURSIVE
up_a(id) AS (
	SELECT ?1
	UNION
	SELECT e.dst FROM edges e JOIN up_a u ON e.src = u.id WHERE e.kind = 'hypernym'
),
up_b(id) AS (
	SELECT ?2
	UNION
	SELECT e.dst FROM edges e JOIN up_b u ON e.src = u.id WHERE e.kind = 'hypernym'
)
SELECT EXISTS (
	SELECT 1 FROM edges e WHERE e.kind = 'disjoint' AND (
		(e.src IN (SELECT id FROM up_a) AND e.dst IN (SELECT id FROM up_b)) OR
		(e.src IN (SELECT id FROM up_b) AND e.dst IN (SELECT id FROM up_a))
	)
)`

// SQLite is an Oracle over a dictionary stored in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ sense.HypernymOracle = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening dictionary database %s: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite uses db, creating the dictionary tables when missing.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("error creating dictionary schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Import stores the synsets of d, replacing rows with the same keys.
func (s *SQLite) Import(ctx context.Context, d *Dictionary) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	rank := 0
	for i := range d.synsets {
		ss := &d.synsets[i]
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO synsets (id, pos) VALUES (?, ?)`, ss.ID, ss.POS); err != nil {
			return fmt.Errorf("error importing synset %d: %w", ss.ID, err)
		}
		for _, w := range ss.Words {
			w = normWord(w)
			if _, err = tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO words (word, stem, synset, rank) VALUES (?, ?, ?, ?)`,
				w, stemPhrase(w), ss.ID, rank); err != nil {
				return fmt.Errorf("error importing word %q: %w", w, err)
			}
			rank++
		}
		edges := []struct {
			kind string
			dsts []int64
		}{
			{edgeHypernym, ss.Hypernyms},
			{edgePart, d.parts[ss.ID]},
			{edgeAntonym, ss.Antonyms},
			{edgeDisjoint, ss.Disjoint},
		}
		for _, e := range edges {
			for _, dst := range e.dsts {
				if _, err = tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO edges (kind, src, dst) VALUES (?, ?, ?)`,
					e.kind, ss.ID, dst); err != nil {
					return fmt.Errorf("error importing %s edge %d -> %d: %w", e.kind, ss.ID, dst, err)
				}
			}
		}
	}
	return tx.Commit()
}

func (s *SQLite) LookupSenses(word string) ([]ling.Sense, error) {
	w := normWord(word)
	res, err := s.senses(w)
	if err != nil || len(res) != 0 {
		return res, err
	}
	lemma, err := s.Lemmatize(w)
	if err != nil || lemma == w {
		return nil, err
	}
	return s.senses(lemma)
}

func (s *SQLite) senses(w string) ([]ling.Sense, error) {
	return s.querySenses(`
		SELECT s.pos, s.id FROM words w JOIN synsets s ON s.id = w.synset
		WHERE w.word = ? ORDER BY w.rank`, w)
}

func (s *SQLite) Hypernyms(x ling.Sense) ([]ling.Sense, error) {
	return s.querySenses(`
		SELECT s.pos, s.id FROM edges e JOIN synsets s ON s.id = e.dst
		WHERE e.kind = ? AND e.src = ? AND EXISTS (
			SELECT 1 FROM synsets x WHERE x.id = e.src AND x.pos = ?)
		ORDER BY s.id`, edgeHypernym, x.ID, string(x.POS))
}

func (s *SQLite) querySenses(q string, args ...any) ([]ling.Sense, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []ling.Sense
	for rows.Next() {
		var pos string
		var id int64
		if err := rows.Scan(&pos, &id); err != nil {
			return nil, err
		}
		res = append(res, ling.Sense{POS: pos[0], ID: id})
	}
	return res, rows.Err()
}

func (s *SQLite) Lemmatize(word string) (string, error) {
	w := normWord(word)
	var lemma string
	err := s.db.QueryRow(`SELECT word FROM words WHERE word = ? LIMIT 1`, w).Scan(&lemma)
	if err == nil {
		return lemma, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	err = s.db.QueryRow(`SELECT word FROM words WHERE stem = ? ORDER BY rank LIMIT 1`, stemPhrase(w)).Scan(&lemma)
	switch {
	case err == nil:
		return lemma, nil
	case errors.Is(err, sql.ErrNoRows):
		return w, nil
	}
	return "", err
}

func (s *SQLite) Related(a, b ling.Sense, kind sense.Kind) (bool, error) {
	switch kind {
	case sense.Equivalent:
		return a == b, nil
	case sense.HypernymOf:
		return s.exists(reachQuery, edgeHypernym, b.ID, a.ID)
	case sense.MeronymOf:
		return s.exists(reachQuery, edgePart, b.ID, a.ID)
	case sense.HolonymOf:
		return s.exists(reachQuery, edgePart, a.ID, b.ID)
	case sense.Antonym:
		return s.exists(`SELECT EXISTS (SELECT 1 FROM edges WHERE kind = ?1 AND
			((src = ?2 AND dst = ?3) OR (src = ?3 AND dst = ?2)))`, edgeAntonym, a.ID, b.ID)
	case sense.Disjoint:
		if a.ID == b.ID {
			return false, nil
		}
		return s.exists(disjointQuery, a.ID, b.ID)
	}
	return false, fmt.Errorf("unsupported relation kind %s", kind)
}

func (s *SQLite) exists(q string, args ...any) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(q, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
