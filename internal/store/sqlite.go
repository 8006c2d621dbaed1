package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/hederw/nfs-extrator/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS layouts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	prompt     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS batches (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	folder     TEXT NOT NULL DEFAULT '',
	records    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
`

// Migrate creates the schema and seeds the default layout.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}

	def := model.DefaultLayout()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO layouts (id, name, prompt, created_at) VALUES (?, ?, ?, ?)`,
		def.ID, def.Name, def.Prompt, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: seed default layout")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "sqlite: get %s", key)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return eris.Wrapf(err, "sqlite: set %s", key)
}

func (s *SQLiteStore) ListLayouts(ctx context.Context) ([]model.Layout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prompt, created_at FROM layouts ORDER BY created_at`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list layouts")
	}
	defer rows.Close()

	var layouts []model.Layout
	for rows.Next() {
		var l model.Layout
		if err := rows.Scan(&l.ID, &l.Name, &l.Prompt, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan layout")
		}
		layouts = append(layouts, l)
	}
	return layouts, eris.Wrap(rows.Err(), "sqlite: iterate layouts")
}

func (s *SQLiteStore) GetLayout(ctx context.Context, name string) (*model.Layout, error) {
	var l model.Layout
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, prompt, created_at FROM layouts WHERE name = ? OR id = ?`,
		name, name,
	).Scan(&l.ID, &l.Name, &l.Prompt, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("layout not found: %s", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get layout %s", name)
	}
	return &l, nil
}

func (s *SQLiteStore) SaveLayout(ctx context.Context, l model.Layout) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO layouts (id, name, prompt, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET prompt = excluded.prompt`,
		l.ID, l.Name, l.Prompt, l.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: save layout %s", l.Name)
}

func (s *SQLiteStore) DeleteLayout(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ? OR name = ?`, id, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete layout %s", id)
	}
	return checkRowsAffected(res, "layout", id)
}

func (s *SQLiteStore) SaveBatch(ctx context.Context, b *model.Batch) error {
	recordsJSON, err := json.Marshal(b.Records)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal records")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batches (id, name, folder, records, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Folder, string(recordsJSON), b.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert batch")
	}

	// Keep only the most recent batches.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM batches WHERE id NOT IN (
			SELECT id FROM batches ORDER BY created_at DESC LIMIT ?
		)`, maxSavedBatches,
	)
	return eris.Wrap(err, "sqlite: prune batches")
}

func (s *SQLiteStore) ListBatches(ctx context.Context) ([]model.Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, folder, records, created_at FROM batches ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: iterate batches")
}

func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, folder, records, created_at FROM batches WHERE id = ?`, id,
	)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("batch not found: %s", id)
	}
	return b, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBatch(row scannable) (*model.Batch, error) {
	var b model.Batch
	var recordsJSON string
	if err := row.Scan(&b.ID, &b.Name, &b.Folder, &recordsJSON, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan batch")
	}
	if err := json.Unmarshal([]byte(recordsJSON), &b.Records); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal records")
	}
	return &b, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
