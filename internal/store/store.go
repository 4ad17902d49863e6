package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/andresmejia3/labelguard/internal/labels"
)

// Store manages the PostgreSQL connection for ingested label sets.
type Store struct {
	conn *pgx.Conn
}

// SetInfo is one row of the `list` report.
type SetInfo struct {
	ID          string
	Dir         string
	IngestedAt  time.Time
	FileCount   int
	RecordCount int
	ErrorCount  int
}

// ClassCount is one row of the `stats` report.
type ClassCount struct {
	ClassID  int
	Records  int
	MeanArea float64
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the necessary tables if they don't exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS label_sets (
			id TEXT PRIMARY KEY,
			dir TEXT NOT NULL,
			ingested_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS label_files (
			id BIGSERIAL PRIMARY KEY,
			set_id TEXT REFERENCES label_sets(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			record_count INT NOT NULL,
			error_count INT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS label_records (
			id BIGSERIAL PRIMARY KEY,
			file_id BIGINT REFERENCES label_files(id) ON DELETE CASCADE,
			line INT NOT NULL,
			class_id INT NOT NULL,
			polygon DOUBLE PRECISION[] NOT NULL,
			area DOUBLE PRECISION NOT NULL
		);
		CREATE TABLE IF NOT EXISTS parse_errors (
			id BIGSERIAL PRIMARY KEY,
			file_id BIGINT REFERENCES label_files(id) ON DELETE CASCADE,
			line INT NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS label_files_set_id_idx ON label_files (set_id);
		CREATE INDEX IF NOT EXISTS label_records_class_id_idx ON label_records (class_id);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// EnsureLabelSet registers the label set. Re-ingesting the same set wipes its
// previous files first so the operation stays idempotent.
func (s *Store) EnsureLabelSet(ctx context.Context, setID, dir string) error {
	if _, err := s.conn.Exec(ctx, "DELETE FROM label_files WHERE set_id = $1", setID); err != nil {
		return err
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO label_sets (id, dir, ingested_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET ingested_at = NOW(), dir = EXCLUDED.dir
	`, setID, dir)
	return err
}

// InsertFileResult persists one file's records and errors atomically.
func (s *Store) InsertFileResult(ctx context.Context, setID string, res labels.ParseResult) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var fileID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO label_files (set_id, path, record_count, error_count)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, setID, res.Path, len(res.Records), len(res.Errors)).Scan(&fileID)
	if err != nil {
		return err
	}

	for _, rec := range res.Records {
		flat := make([]float64, 0, len(rec.Polygon)*2)
		for _, p := range rec.Polygon {
			flat = append(flat, p.X, p.Y)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO label_records (file_id, line, class_id, polygon, area)
			VALUES ($1, $2, $3, $4, $5)
		`, fileID, rec.Line, rec.ClassID, flat, labels.Area(rec.Polygon))
		if err != nil {
			return err
		}
	}

	for _, perr := range res.Errors {
		_, err = tx.Exec(ctx, `
			INSERT INTO parse_errors (file_id, line, kind, message)
			VALUES ($1, $2, $3, $4)
		`, fileID, perr.Line, perr.Kind.String(), perr.Message)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListSets returns every ingested label set with aggregate counts,
// most recent first.
func (s *Store) ListSets(ctx context.Context) ([]SetInfo, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT s.id, s.dir, s.ingested_at,
		       COUNT(f.id),
		       COALESCE(SUM(f.record_count), 0),
		       COALESCE(SUM(f.error_count), 0)
		FROM label_sets s
		LEFT JOIN label_files f ON f.set_id = s.id
		GROUP BY s.id, s.dir, s.ingested_at
		ORDER BY s.ingested_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []SetInfo
	for rows.Next() {
		var info SetInfo
		if err := rows.Scan(&info.ID, &info.Dir, &info.IngestedAt,
			&info.FileCount, &info.RecordCount, &info.ErrorCount); err != nil {
			return nil, err
		}
		sets = append(sets, info)
	}
	return sets, rows.Err()
}

// ResolveSet finds a label set by id prefix, so the truncated ids shown by
// `list` are accepted back. Fails when the prefix is ambiguous or unknown.
func (s *Store) ResolveSet(ctx context.Context, prefix string) (string, error) {
	rows, err := s.conn.Query(ctx, "SELECT id FROM label_sets WHERE id LIKE $1 || '%'", prefix)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no label set matches %q", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("set prefix %q is ambiguous (%d matches)", prefix, len(ids))
	}
}

// ClassCounts returns record counts and mean polygon area per class for
// one set, ordered by class id.
func (s *Store) ClassCounts(ctx context.Context, setID string) ([]ClassCount, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT r.class_id, COUNT(*), AVG(r.area)
		FROM label_records r
		JOIN label_files f ON r.file_id = f.id
		WHERE f.set_id = $1
		GROUP BY r.class_id
		ORDER BY r.class_id ASC
	`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ClassCount
	for rows.Next() {
		var c ClassCount
		if err := rows.Scan(&c.ClassID, &c.Records, &c.MeanArea); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Reset drops all application tables to clear the database state.
// This is useful for development to force a schema refresh without migrations.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `
		DROP TABLE IF EXISTS parse_errors CASCADE;
		DROP TABLE IF EXISTS label_records CASCADE;
		DROP TABLE IF EXISTS label_files CASCADE;
		DROP TABLE IF EXISTS label_sets CASCADE;
	`)
	return err
}
