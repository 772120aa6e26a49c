package audit

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteSink archives entries into a SQLite database.
type SQLiteSink struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// timeFormat sorts lexically in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// NewSQLiteSink opens or creates a SQLite archive at the given path.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}

	s := &SQLiteSink{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	return s, nil
}

func (s *SQLiteSink) newID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

func (s *SQLiteSink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guardian_log (
		id          TEXT PRIMARY KEY,
		at          TEXT NOT NULL,
		kind        TEXT NOT NULL,
		memory_id   TEXT,
		guardian_id TEXT,
		line        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_guardian_log_memory ON guardian_log(memory_id);
	CREATE INDEX IF NOT EXISTS idx_guardian_log_kind ON guardian_log(kind);
	CREATE INDEX IF NOT EXISTS idx_guardian_log_at ON guardian_log(at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts e, assigning an ID when it has none.
func (s *SQLiteSink) Append(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if e.ID == "" {
		e.ID = s.newID(e.At)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guardian_log (id, at, kind, memory_id, guardian_id, line)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UTC().Format(timeFormat), string(e.Kind),
		nullable(e.MemoryID), nullable(e.GuardianID), e.Line)
	if err != nil {
		return errors.Wrap(err, "insert entry")
	}
	return nil
}

// List returns archived entries oldest first.
func (s *SQLiteSink) List(ctx context.Context, p ListParams) ([]Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.MemoryID != "" {
		where = append(where, "memory_id = ?")
		args = append(args, p.MemoryID)
	}
	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(p.Kind))
	}
	args = append(args, limit)

	// Newest N, then flipped so callers read them in log order.
	query := `SELECT id, at, kind, memory_id, guardian_id, line FROM (
		SELECT * FROM guardian_log WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY at DESC, id DESC LIMIT ?
	) ORDER BY at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query entries")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of archived entries.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guardian_log`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count entries")
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var at, kind string
	var memoryID, guardianID sql.NullString

	if err := row.Scan(&e.ID, &at, &kind, &memoryID, &guardianID, &e.Line); err != nil {
		return e, errors.Wrap(err, "scan entry")
	}

	e.At, _ = time.Parse(timeFormat, at)
	e.Kind = Kind(kind)
	if memoryID.Valid {
		e.MemoryID = memoryID.String
	}
	if guardianID.Valid {
		e.GuardianID = guardianID.String
	}
	return e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
