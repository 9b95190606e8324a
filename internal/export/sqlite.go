package export

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nvandessel/flipstudy/internal/spacing"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	session_id    TEXT NOT NULL REFERENCES sessions(id),
	seq           INTEGER NOT NULL,
	fact_id       TEXT NOT NULL,
	start_time    INTEGER NOT NULL,
	reaction_time INTEGER NOT NULL,
	correct       INTEGER NOT NULL,
	flipped       INTEGER NOT NULL,
	alpha         REAL NOT NULL,
	activation    REAL NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_responses_fact ON responses(fact_id);
`

// WriteSQLite appends one session and its rows to the SQLite database at path,
// creating the schema if needed. Several sessions may share one database file.
func WriteSQLite(path string, rows []spacing.ExportRow, meta Meta) error {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return fmt.Errorf("open export db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate export db: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	created := meta.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.Exec(
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		meta.SessionID, created.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO responses
		(session_id, seq, fact_id, start_time, reaction_time, correct, flipped, alpha, activation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.Exec(meta.SessionID, i, r.FactID, r.StartTime, r.ReactionTime,
			r.Correct, r.Flipped, r.Alpha, r.Activation); err != nil {
			return fmt.Errorf("insert response %d: %w", i, err)
		}
	}

	return tx.Commit()
}
