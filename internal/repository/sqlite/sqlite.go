package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"studentbook/internal/models"
	"studentbook/internal/repository"
	"studentbook/internal/repository/snapshot"
)

// Repository stores the student collection in a single table that is fully
// rewritten inside one transaction on every save.
type Repository struct {
	db *sql.DB
}

func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", repository.ErrStoreIO, dsn, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			full_name TEXT NOT NULL,
			grp TEXT NOT NULL,
			email TEXT NOT NULL,
			rating REAL NOT NULL,
			owner TEXT NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", classify(err), err)
	}
	if err := checkVersion(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func checkVersion(db *sql.DB) error {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return fmt.Errorf("%w: read schema version: %w", classify(err), err)
	}
	switch v {
	case snapshot.Version:
		return nil
	case 0:
		if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, snapshot.Version)); err != nil {
			return fmt.Errorf("%w: write schema version: %w", repository.ErrStoreIO, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported schema version %d", repository.ErrDeserialization, v)
	}
}

// classify maps a driver error to ErrDeserialization when the file exists but
// is not a usable database, and to ErrStoreIO otherwise.
func classify(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return repository.ErrDeserialization
		}
	}
	return repository.ErrStoreIO
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Load(ctx context.Context) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, full_name, grp, email, rating, owner FROM students ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query students: %w", classify(err), err)
	}
	defer rows.Close()
	out := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.FullName, &s.Group, &s.Email, &s.Rating, &s.Owner); err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrDeserialization, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreIO, err)
	}
	return out, nil
}

func (r *Repository) Save(ctx context.Context, students []models.Student) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", repository.ErrStoreIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("%w: clear students: %w", repository.ErrStoreIO, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO students(position, id, full_name, grp, email, rating, owner) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", repository.ErrStoreIO, err)
	}
	defer stmt.Close()
	for i, s := range students {
		if _, err := stmt.ExecContext(ctx, i, s.ID, s.FullName, s.Group, s.Email, s.Rating, s.Owner); err != nil {
			return fmt.Errorf("%w: insert student: %w", repository.ErrStoreIO, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", repository.ErrStoreIO, err)
	}
	return nil
}
