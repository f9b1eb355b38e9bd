package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/seqportal/pkg/filter"
)

// SelectionNotFoundError is returned for an unknown selection id.
type SelectionNotFoundError struct {
	ID string
}

func (e *SelectionNotFoundError) Error() string {
	return fmt.Sprintf("selection '%s' does not exist", e.ID)
}

// SavedSelection is an explicit selection stored under an id so it can be
// shared and downloaded later.
type SavedSelection struct {
	ID                string    `json:"id"`
	Organism          string    `json:"organism"`
	AccessionVersions []string  `json:"accessionVersions"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Filter rebuilds the selection filter.
func (s *SavedSelection) Filter() *filter.SequenceEntrySelection {
	return filter.NewSequenceEntrySelection(s.AccessionVersions)
}

const createSelectionTable = `
	CREATE TABLE IF NOT EXISTS saved_selections (
		id TEXT PRIMARY KEY,
		organism TEXT NOT NULL,
		accession_versions TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
`

// SelectionStore keeps saved selections in SQLite.
type SelectionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSelectionStore creates the table when missing.
func NewSelectionStore(ctx context.Context, db *sql.DB) (*SelectionStore, error) {
	if _, err := db.ExecContext(ctx, createSelectionTable); err != nil {
		return nil, fmt.Errorf("creating selection table: %w", err)
	}
	return &SelectionStore{db: db, now: time.Now}, nil
}

// Save stores the de-duplicated, sorted accession versions under a new id.
func (s *SelectionStore) Save(ctx context.Context, organism string, accessionVersions []string) (*SavedSelection, error) {
	ids := filter.NewSequenceEntrySelection(accessionVersions).AccessionVersions()
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	saved := &SavedSelection{
		ID:                uuid.NewString(),
		Organism:          organism,
		AccessionVersions: ids,
		CreatedAt:         s.now().UTC().Truncate(time.Second),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_selections (id, organism, accession_versions, created_at) VALUES (?, ?, ?, ?)`,
		saved.ID, saved.Organism, string(encoded), saved.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("saving selection: %w", err)
	}
	return saved, nil
}

func (s *SelectionStore) Get(ctx context.Context, id string) (*SavedSelection, error) {
	stm, err := s.db.PrepareContext(ctx,
		`SELECT id, organism, accession_versions, created_at FROM saved_selections WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	var (
		saved   SavedSelection
		encoded string
		created int64
	)
	err = stm.QueryRowContext(ctx, id).Scan(&saved.ID, &saved.Organism, &encoded, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &SelectionNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("reading selection '%s': %w", id, err)
	}
	if err := json.Unmarshal([]byte(encoded), &saved.AccessionVersions); err != nil {
		return nil, fmt.Errorf("decoding selection '%s': %w", id, err)
	}
	saved.CreatedAt = time.Unix(created, 0).UTC()
	return &saved, nil
}

// Open opens the SQLite database at path. ":memory:" is limited to one
// connection so every query sees the same database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
