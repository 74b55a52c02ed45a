// Package storage manages the on-disk lifecycle of a SQLite database:
// provisioning the file with WAL durability, tearing it down together
// with its -wal and -shm companions, and opening provisioned databases
// with the adapter's pragma set.
//
// Up and Down are not mutually safe against the same path; callers
// serialize provisioning externally, typically once at startup before
// connection pools open.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrMissingPath indicates provisioning was invoked without a configured
// database path.
var ErrMissingPath = errors.New("no database path configured")

// ProvisioningError is a filesystem or engine failure during up/down,
// distinct from the idempotent Already* outcomes.
type ProvisioningError struct {
	Op   string // "up" or "down"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// UpStatus is the success outcome of Up.
type UpStatus int

const (
	// StatusCreated means the database file was provisioned.
	StatusCreated UpStatus = iota
	// StatusAlreadyUp means the file already existed. This is a success
	// outcome, not an error; callers branch on it distinctly.
	StatusAlreadyUp
)

// DownStatus is the success outcome of Down.
type DownStatus int

const (
	// StatusDeleted means the main database file was removed.
	StatusDeleted DownStatus = iota
	// StatusAlreadyDown means the main file was already absent.
	StatusAlreadyDown
)

// CompanionPaths returns the -wal and -shm paths for a database file.
// The three files are managed as a unit.
func CompanionPaths(path string) (wal, shm string) {
	return path + "-wal", path + "-shm"
}

// Up provisions the database file at path. If the file already exists it
// returns StatusAlreadyUp and does nothing. Otherwise it creates parent
// directories, opens the engine, switches the journal to WAL and reads
// the pragma back to confirm acceptance before closing.
//
// WAL confirmation failures propagate as *ProvisioningError: downstream
// concurrency (concurrent readers with one writer) depends on WAL being
// active, not the default rollback journal.
func Up(path string) (UpStatus, error) {
	if path == "" {
		return 0, ErrMissingPath
	}

	if _, err := os.Stat(path); err == nil {
		return StatusAlreadyUp, nil
	} else if !os.IsNotExist(err) {
		return 0, &ProvisioningError{Op: "up", Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, &ProvisioningError{Op: "up", Path: path, Err: err}
		}
	}

	if err := provision(path); err != nil {
		// The engine may have created the file before failing. Remove
		// it so a retry after the condition is fixed provisions from
		// scratch instead of reporting AlreadyUp for a database whose
		// WAL mode was never confirmed.
		discardPartial(path)
		return 0, &ProvisioningError{Op: "up", Path: path, Err: err}
	}

	return StatusCreated, nil
}

// provision opens the engine at path, confirms connectivity and switches
// the journal to WAL.
func provision(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return err
	}
	return enableWAL(db)
}

// discardPartial removes the database trio left behind by a failed
// provisioning attempt, ignoring files that were never created.
func discardPartial(path string) {
	removeIfPresent(path)
	wal, shm := CompanionPaths(path)
	removeIfPresent(wal)
	removeIfPresent(shm)
}

// Down removes the database file at path, returning StatusAlreadyDown
// when it was already absent. Regardless of the main file's outcome,
// both companion files are best-effort deleted; their absence is never
// an error.
func Down(path string) (DownStatus, error) {
	if path == "" {
		return 0, ErrMissingPath
	}

	status := StatusDeleted
	err := os.Remove(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		status = StatusAlreadyDown
		err = nil
	default:
		err = &ProvisioningError{Op: "down", Path: path, Err: err}
	}

	wal, shm := CompanionPaths(path)
	removeIfPresent(wal)
	removeIfPresent(shm)

	if err != nil {
		return 0, err
	}
	return status, nil
}

// Open opens a provisioned database with the adapter's pragma set:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
//
// Connections are limited to a single writer; SQLite allows only one
// writer at a time and concurrent writers surface as SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, ErrMissingPath
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// enableWAL switches the journal mode and confirms the engine accepted
// it. SQLite silently keeps the old mode in some failure cases, so the
// readback is mandatory.
func enableWAL(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("set journal_mode: %w", err)
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("read journal_mode back: %w", err)
	}
	if !strings.EqualFold(mode, "wal") {
		return fmt.Errorf("journal_mode is %q, want wal", mode)
	}
	return nil
}

// applyPragmas sets the adapter's required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Pragma reads a single pragma value from an open database.
func Pragma(db *sql.DB, name string) (string, error) {
	var value string
	if err := db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return "", fmt.Errorf("query %s: %w", name, err)
	}
	return value, nil
}

// removeIfPresent deletes a companion file, ignoring its absence. The
// main file's outcome already decided success or failure.
func removeIfPresent(path string) {
	_ = os.Remove(path)
}
