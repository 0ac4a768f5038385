package cache

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// Store is a persistent cache of compiled tables, one row per
// (fingerprint, algorithm) pair.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database at file.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS compiled_tables (
		id TEXT NOT NULL PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		start_state TEXT NOT NULL,
		cells TEXT NOT NULL,
		created INTEGER NOT NULL,
		UNIQUE(fingerprint, algorithm)
	);`
	_, err := s.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// cachedTable is the rezi-serializable snapshot of a compiled table: the
// exported start state and cell dump produced by table.Table.Cells.
type cachedTable struct {
	Start string
	Cells []table.Cell
}

// Put stores tbl under (fingerprint, algorithm), replacing any existing
// entry for that pair.
func (s *Store) Put(fingerprint, algorithm string, tbl *table.Table) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("could not generate cache entry ID: %w", err)
	}

	snapshot := cachedTable{Start: tbl.Start, Cells: tbl.Cells()}
	raw := rezi.EncBinary(snapshot)
	encCells := base64.StdEncoding.EncodeToString(raw)

	_, err = s.db.Exec(
		`INSERT INTO compiled_tables (id, fingerprint, algorithm, start_state, cells, created)
		 VALUES (?, ?, ?, ?, ?, strftime('%s', 'now'))
		 ON CONFLICT(fingerprint, algorithm) DO UPDATE SET
		   id = excluded.id, start_state = excluded.start_state,
		   cells = excluded.cells, created = excluded.created`,
		id.String(), fingerprint, algorithm, tbl.Start, encCells,
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get retrieves the table cached under (fingerprint, algorithm). It returns
// ErrNotFound if no such entry exists.
func (s *Store) Get(fingerprint, algorithm string) (*table.Table, error) {
	var start, encCells string
	row := s.db.QueryRow(
		`SELECT start_state, cells FROM compiled_tables WHERE fingerprint = ? AND algorithm = ?`,
		fingerprint, algorithm,
	)
	if err := row.Scan(&start, &encCells); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err)
	}

	raw, err := base64.StdEncoding.DecodeString(encCells)
	if err != nil {
		return nil, fmt.Errorf("%w: stored cell data is not valid base64: %v", ErrDecodingFailure, err)
	}

	var snapshot cachedTable
	n, err := rezi.DecBinary(raw, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("%w: decoded %d/%d bytes", ErrDecodingFailure, n, len(raw))
	}

	return table.FromCells(snapshot.Start, snapshot.Cells), nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
