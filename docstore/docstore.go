// Package docstore persists analyzed documents: the pipeline's summary and
// classified test readings alongside the original filename and the owner
// identity that uploaded it.
package docstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/medreport/analysis"
)

// Document is one stored analysis result.
type Document struct {
	ID          string                 `json:"id"`
	Owner       string                 `json:"-"`
	Filename    string                 `json:"filename"`
	Summary     string                 `json:"summary"`
	TestResults []analysis.TestReading `json:"testResults"`
	Outcome     analysis.Outcome       `json:"outcome"`
	CreatedAt   string                 `json:"created_at"`
}

// Store wraps the SQLite database holding analyzed documents.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations. The
// pragmas ride the DSN in modernc's _pragma form so every pooled connection
// gets WAL journaling, a busy timeout and foreign keys.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
    id          TEXT PRIMARY KEY,
    owner       TEXT NOT NULL,
    filename    TEXT NOT NULL,
    summary     TEXT NOT NULL,
    readings    TEXT NOT NULL DEFAULT '[]',
    outcome     TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner, created_at DESC);
`
	_, err := s.db.Exec(ddl)
	return err
}

// Insert stores a new analysis result for owner and returns the stored
// document with its generated ID and timestamp filled in.
func (s *Store) Insert(owner, filename string, res analysis.Result) (*Document, error) {
	readings, err := json.Marshal(res.TestResults)
	if err != nil {
		return nil, fmt.Errorf("marshal readings: %w", err)
	}
	doc := &Document{
		ID:          uuid.NewString(),
		Owner:       owner,
		Filename:    filename,
		Summary:     res.Summary,
		TestResults: res.TestResults,
		Outcome:     res.Outcome,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (id, owner, filename, summary, readings, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Owner, doc.Filename, doc.Summary, string(readings), string(doc.Outcome), doc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// Get returns a document by ID. Returns nil, nil if not found.
func (s *Store) Get(id string) (*Document, error) {
	row := s.db.QueryRow(
		`SELECT id, owner, filename, summary, readings, outcome, created_at
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// ListByOwner returns all documents owned by owner, newest first.
func (s *Store) ListByOwner(owner string) ([]*Document, error) {
	rows, err := s.db.Query(
		`SELECT id, owner, filename, summary, readings, outcome, created_at
		 FROM documents WHERE owner = ? ORDER BY created_at DESC, id`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document by ID. Deleting a missing ID is not an error.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}

func scanDocument(scan func(dest ...any) error) (*Document, error) {
	var (
		doc      Document
		readings string
		outcome  string
	)
	if err := scan(&doc.ID, &doc.Owner, &doc.Filename, &doc.Summary, &readings, &outcome, &doc.CreatedAt); err != nil {
		return nil, err
	}
	doc.Outcome = analysis.Outcome(outcome)
	if err := json.Unmarshal([]byte(readings), &doc.TestResults); err != nil {
		return nil, fmt.Errorf("unmarshal readings for %s: %w", doc.ID, err)
	}
	if doc.TestResults == nil {
		doc.TestResults = []analysis.TestReading{}
	}
	return &doc, nil
}
