package storage

import (
	"context"
	"database/sql"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/nikbrunner/rl/internal/model"
)

const currentSchemaVersion = 1

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var itemColumns = []string{"id", "url", "title", "state", "captured_at", "state_entered_at"}

// SQLiteStorage implements Store using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // single writer
}

// NewSQLiteStorage opens (or creates) the database at path and migrates it.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := ensureDir(path); err != nil {
		return nil, &model.StorageError{Op: "open", Err: err}
	}

	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &model.StorageError{Op: "open", Err: errors.Wrap(err, "could not open database")}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &model.StorageError{Op: "open", Err: errors.Wrap(err, "could not reach database")}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &model.StorageError{Op: "migrate", Err: err}
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return errors.Wrap(err, "could not apply schema v1")
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			state TEXT NOT NULL CHECK (state IN ('inbox', 'bookmark', 'archive')),
			captured_at TEXT NOT NULL,
			state_entered_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_state ON items(state, state_entered_at);
		CREATE INDEX IF NOT EXISTS idx_items_url ON items(url);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// View runs fn in a read transaction.
func (s *SQLiteStorage) View(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	return fn(&sqliteTx{ctx: ctx, tx: tx})
}

// Update runs fn in a write transaction and commits if fn succeeds.
func (s *SQLiteStorage) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &model.StorageError{Op: "commit", Err: err}
	}
	return nil
}

// sqliteTx implements Tx on top of a database/sql transaction.
type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *sqliteTx) Insert(item model.Item) error {
	if err := checkState(item.State); err != nil {
		return err
	}

	query, args, err := sq.Insert("items").
		Columns(itemColumns...).
		Values(item.ID, item.URL, item.Title, string(item.State),
			formatTime(item.CapturedAt), formatTime(item.StateEnteredAt)).
		ToSql()
	if err != nil {
		return &model.StorageError{Op: "insert", Err: err}
	}

	if _, err := t.tx.ExecContext(t.ctx, query, args...); err != nil {
		return &model.StorageError{Op: "insert", Err: err}
	}
	return nil
}

func (t *sqliteTx) Delete(id string) (bool, error) {
	query, args, err := sq.Delete("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, &model.StorageError{Op: "delete", Err: err}
	}

	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return false, &model.StorageError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &model.StorageError{Op: "delete", Err: err}
	}
	return n > 0, nil
}

func (t *sqliteTx) Get(id string) (model.Item, error) {
	query, args, err := sq.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Item{}, &model.StorageError{Op: "get", Err: err}
	}

	item, err := scanItem(t.tx.QueryRowContext(t.ctx, query, args...))
	if err == sql.ErrNoRows {
		return model.Item{}, model.ErrNotFound
	}
	if err != nil {
		return model.Item{}, &model.StorageError{Op: "get", Err: err}
	}
	return item, nil
}

func (t *sqliteTx) Count(state model.State) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("items").Where(sq.Eq{"state": string(state)}).ToSql()
	if err != nil {
		return 0, &model.StorageError{Op: "count", Err: err}
	}

	var n int
	if err := t.tx.QueryRowContext(t.ctx, query, args...).Scan(&n); err != nil {
		return 0, &model.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func (t *sqliteTx) List(state model.State) ([]model.Item, error) {
	query, args, err := sq.Select(itemColumns...).
		From("items").
		Where(sq.Eq{"state": string(state)}).
		OrderBy("state_entered_at DESC", "captured_at DESC").
		ToSql()
	if err != nil {
		return nil, &model.StorageError{Op: "list", Err: err}
	}

	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, &model.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "list", Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list", Err: err}
	}

	return items, nil
}

func (t *sqliteTx) Transition(id string, from, to model.State, mutate func(*model.Item)) (model.Item, error) {
	if err := checkState(to); err != nil {
		return model.Item{}, err
	}

	cur, err := t.Get(id)
	if err != nil {
		return model.Item{}, err
	}
	if cur.State != from {
		return model.Item{}, model.ErrNotFound
	}

	next := transitioned(cur, to, mutate)

	query, args, err := sq.Update("items").
		Set("state", string(next.State)).
		Set("state_entered_at", formatTime(next.StateEnteredAt)).
		Where(sq.Eq{"id": id, "state": string(from)}).
		ToSql()
	if err != nil {
		return model.Item{}, &model.StorageError{Op: "transition", Err: err}
	}

	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return model.Item{}, &model.StorageError{Op: "transition", Err: err}
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Item{}, &model.StorageError{Op: "transition", Err: err}
	} else if n != 1 {
		return model.Item{}, model.ErrNotFound
	}

	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var state, capturedAt, enteredAt string

	if err := row.Scan(&item.ID, &item.URL, &item.Title, &state, &capturedAt, &enteredAt); err != nil {
		return model.Item{}, err
	}

	item.State = model.State(state)

	var err error
	if item.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt); err != nil {
		return model.Item{}, errors.Wrapf(err, "bad captured_at for %s", item.ID)
	}
	if item.StateEnteredAt, err = time.Parse(time.RFC3339Nano, enteredAt); err != nil {
		return model.Item{}, errors.Wrapf(err, "bad state_entered_at for %s", item.ID)
	}

	return item, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
