package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed-width so that text ordering in SQL matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

var _ SessionRepository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the history database and brings its schema up to date.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, in Session) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, task_name, kind, duration_sec, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.TaskName, string(in.Kind), in.DurationSec, mustTime(in.StartedAt), mustTime(in.EndedAt),
	)
	return err
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, task_name, kind, duration_sec, started_at, ended_at
		FROM sessions WHERE id = ?`, id)
	item, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error) {
	query := `SELECT id, task_name, kind, duration_sec, started_at, ended_at FROM sessions`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.TaskName != "" {
		clauses = append(clauses, "task_name = ?")
		args = append(args, filter.TaskName)
	}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, mustTime(*filter.Since))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY ended_at DESC, id`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		item, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteSessionsForTask(ctx context.Context, taskName string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE task_name = ?`, taskName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) TotalsByTask(ctx context.Context, since *time.Time) ([]TaskTotal, error) {
	query := `SELECT task_name, COUNT(*), COALESCE(SUM(duration_sec), 0) FROM sessions WHERE kind = ?`
	args := []any{string(SessionKindWork)}
	if since != nil {
		query += ` AND ended_at >= ?`
		args = append(args, mustTime(*since))
	}
	query += ` GROUP BY task_name ORDER BY SUM(duration_sec) DESC, task_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskTotal, 0)
	for rows.Next() {
		var item TaskTotal
		if err := rows.Scan(&item.TaskName, &item.Sessions, &item.DurationSec); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (Session, error) {
	var out Session
	var kind string
	var started string
	var ended string
	if err := s.Scan(&out.ID, &out.TaskName, &kind, &out.DurationSec, &started, &ended); err != nil {
		return Session{}, err
	}
	startedAt, err := parseRequiredTime(started)
	if err != nil {
		return Session{}, err
	}
	endedAt, err := parseRequiredTime(ended)
	if err != nil {
		return Session{}, err
	}
	out.Kind = SessionKind(kind)
	out.StartedAt = startedAt
	out.EndedAt = endedAt
	return out, nil
}
