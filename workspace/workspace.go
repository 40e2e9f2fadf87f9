package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/funvibe/funvec"
)

var (
	// ErrNotFound is returned when no vector is saved under the name.
	ErrNotFound = errors.New("workspace: vector not found")

	// ErrSnapshotNotFound is returned for an unknown snapshot id.
	ErrSnapshotNotFound = errors.New("workspace: snapshot not found")
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vectors (
		name TEXT NOT NULL PRIMARY KEY,
		kind INTEGER NOT NULL,
		n INTEGER NOT NULL,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT NOT NULL PRIMARY KEY,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_vectors (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		n INTEGER NOT NULL,
		payload BLOB NOT NULL,

		FOREIGN KEY(snapshot_id) REFERENCES snapshots(id),
		PRIMARY KEY(snapshot_id, name)
	)`,
}

// Workspace is a store of named vectors over a single SQLite database.
// All methods are safe for concurrent use; writes serialize through the
// database handle.
type Workspace struct {
	db  *sqlx.DB
	log *zap.Logger
	now func() time.Time
}

type Option func(*Workspace)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) { w.log = l }
}

// Open opens (creating if needed) the workspace database at path. The
// path ":memory:" yields a transient in-memory workspace.
func Open(path string, opts ...Option) (*Workspace, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("workspace: open %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("workspace: setup schema: %w", err)
		}
	}
	w := &Workspace{db: db, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

func (w *Workspace) Close() error { return w.db.Close() }

// Save stores v under name, replacing any previous vector of that name.
func (w *Workspace) Save(ctx context.Context, name string, v *funvec.Vector) error {
	if name == "" {
		return fmt.Errorf("workspace: vector name must not be empty")
	}
	payload, err := Encode(v)
	if err != nil {
		return err
	}
	_, err = w.db.ExecContext(ctx, `INSERT INTO vectors (name, kind, n, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			n = excluded.n,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		name, int(v.Kind()), v.Len(), payload, w.now().Unix())
	if err != nil {
		return fmt.Errorf("workspace: save %q: %w", name, err)
	}
	w.log.Debug("vector saved",
		zap.String("name", name),
		zap.Stringer("kind", v.Kind()),
		zap.Int("len", v.Len()),
		zap.Int("payload_bytes", len(payload)))
	return nil
}

// Load returns an independent copy of the vector saved under name.
func (w *Workspace) Load(ctx context.Context, name string) (*funvec.Vector, error) {
	var payload []byte
	err := w.db.GetContext(ctx, &payload, `SELECT payload FROM vectors WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("workspace: load %q: %w", name, err)
	}
	return Decode(payload)
}

// Entry describes one saved vector.
type Entry struct {
	Name      string
	Kind      funvec.Kind
	Len       int
	UpdatedAt time.Time
}

// List returns the saved vectors in name order.
func (w *Workspace) List(ctx context.Context) ([]Entry, error) {
	var rows []struct {
		Name      string `db:"name"`
		Kind      int    `db:"kind"`
		N         int    `db:"n"`
		UpdatedAt int64  `db:"updated_at"`
	}
	if err := w.db.SelectContext(ctx, &rows, `SELECT name, kind, n, updated_at FROM vectors ORDER BY name`); err != nil {
		return nil, fmt.Errorf("workspace: list: %w", err)
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{
			Name:      r.Name,
			Kind:      funvec.Kind(r.Kind),
			Len:       r.N,
			UpdatedAt: time.Unix(r.UpdatedAt, 0),
		}
	}
	return out, nil
}

// Delete removes the vector saved under name.
func (w *Workspace) Delete(ctx context.Context, name string) error {
	res, err := w.db.ExecContext(ctx, `DELETE FROM vectors WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("workspace: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Snapshot freezes the current workspace contents under a fresh UUID and
// returns it.
func (w *Workspace) Snapshot(ctx context.Context) (string, error) {
	id := uuid.NewString()
	err := w.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, created_at) VALUES (?, ?)`,
			id, w.now().Unix()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO snapshot_vectors (snapshot_id, name, kind, n, payload)
			SELECT ?, name, kind, n, payload FROM vectors`, id)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("workspace: snapshot: %w", err)
	}
	w.log.Info("snapshot created", zap.String("id", id))
	return id, nil
}

// Restore replaces the current workspace contents with snapshot id. The
// snapshot itself is kept.
func (w *Workspace) Restore(ctx context.Context, id string) error {
	err := w.inTx(ctx, func(tx *sqlx.Tx) error {
		var one int
		if err := tx.GetContext(ctx, &one, `SELECT 1 FROM snapshots WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vectors`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO vectors (name, kind, n, payload, updated_at)
			SELECT name, kind, n, payload, ? FROM snapshot_vectors WHERE snapshot_id = ?`,
			w.now().Unix(), id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return err
		}
		return fmt.Errorf("workspace: restore %q: %w", id, err)
	}
	w.log.Info("snapshot restored", zap.String("id", id))
	return nil
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	ID        string
	CreatedAt time.Time
}

// Snapshots returns the stored snapshots, newest first.
func (w *Workspace) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	var rows []struct {
		ID        string `db:"id"`
		CreatedAt int64  `db:"created_at"`
	}
	if err := w.db.SelectContext(ctx, &rows, `SELECT id, created_at FROM snapshots ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("workspace: snapshots: %w", err)
	}
	out := make([]SnapshotInfo, len(rows))
	for i, r := range rows {
		out[i] = SnapshotInfo{ID: r.ID, CreatedAt: time.Unix(r.CreatedAt, 0)}
	}
	return out, nil
}

func (w *Workspace) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
