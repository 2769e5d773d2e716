package history

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const sqliteFile = "runs.sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS sortbench_runs (
	ts BIGINT PRIMARY KEY,
	run TEXT NOT NULL
);
`

// sqlBackend stores runs in a single table. The two drivers differ only in
// their placeholder syntax.
type sqlBackend struct {
	db     *sql.DB
	upsert string
}

func openSQLite(dir string) (*sqlBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return openSQL("sqlite", filepath.Join(dir, sqliteFile),
		`INSERT INTO sortbench_runs (ts, run) VALUES (?, ?)
		 ON CONFLICT(ts) DO UPDATE SET run = excluded.run`)
}

func openPostgres(dsn string) (*sqlBackend, error) {
	return openSQL("postgres", dsn,
		`INSERT INTO sortbench_runs (ts, run) VALUES ($1, $2)
		 ON CONFLICT (ts) DO UPDATE SET run = EXCLUDED.run`)
}

func openSQL(driver, dsn, upsert string) (*sqlBackend, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate database")
	}
	return &sqlBackend{db: db, upsert: upsert}, nil
}

func (b *sqlBackend) put(ts int64, value []byte) error {
	_, err := b.db.Exec(b.upsert, ts, string(value))
	return err
}

func (b *sqlBackend) scan(fn func(value []byte) error) error {
	rows, err := b.db.Query(`SELECT run FROM sortbench_runs ORDER BY ts ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return err
		}
		if err := fn([]byte(run)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (b *sqlBackend) last() ([]byte, error) {
	var run string
	err := b.db.QueryRow(`SELECT run FROM sortbench_runs ORDER BY ts DESC LIMIT 1`).Scan(&run)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(run), nil
}

func (b *sqlBackend) close() error { return b.db.Close() }
