package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages progress persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the progress database in dir. Unreadable or
// version-mismatched databases yield an error wrapping ErrStoreCorrupt.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	dbPath := filepath.Join(dir, "progress.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// synchronous=FULL so every record write is durable before the next item
	// is attempted; a kill between items must never lose the last update.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: apply pragma %q: %w", ErrStoreCorrupt, pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all persisted records keyed by item identifier.
func (s *Store) Load(ctx context.Context) (map[string]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, status, reason, updated_at FROM theme_progress`)
	if err != nil {
		return nil, fmt.Errorf("%w: load records: %w", ErrStoreCorrupt, err)
	}
	defer rows.Close()

	records := make(map[string]Record)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", ErrStoreCorrupt, err)
		}
		records[record.ItemID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %w", ErrStoreCorrupt, err)
	}
	return records, nil
}

// Status returns the persisted status for an item, defaulting to pending for
// items never seen.
func (s *Store) Status(ctx context.Context, itemID string) (Status, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT status FROM theme_progress WHERE item_id = ?`, itemID)
	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return StatusPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	status, ok := ParseStatus(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q for item %s", ErrStoreCorrupt, raw, itemID)
	}
	return status, nil
}

// Record upserts an item's status. Durable before return. A downloaded record
// is never downgraded: writes of a lesser status against it are dropped.
func (s *Store) Record(ctx context.Context, itemID string, status Status, reason string) error {
	if itemID == "" {
		return errors.New("item id is empty")
	}
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO theme_progress (item_id, status, reason, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(item_id) DO UPDATE SET
             status = excluded.status,
             reason = excluded.reason,
             updated_at = excluded.updated_at
         WHERE theme_progress.status != ?`,
		itemID, string(status), nullableString(reason), timestamp,
		string(StatusDownloaded),
	)
	if err != nil {
		return fmt.Errorf("record status: %w", err)
	}
	return nil
}

// Cooldown returns the persisted resume timestamp, if any.
func (s *Store) Cooldown(ctx context.Context) (time.Time, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT resume_at FROM cooldown WHERE id = 1`)
	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get cooldown: %w", err)
	}
	resumeAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: parse cooldown %q: %w", ErrStoreCorrupt, raw, err)
	}
	return resumeAt, true, nil
}

// SetCooldown persists the resume timestamp, replacing any existing one.
func (s *Store) SetCooldown(ctx context.Context, resumeAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cooldown (id, resume_at) VALUES (1, ?)
         ON CONFLICT(id) DO UPDATE SET resume_at = excluded.resume_at`,
		resumeAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set cooldown: %w", err)
	}
	return nil
}

// ClearCooldown removes the persisted resume timestamp.
func (s *Store) ClearCooldown(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cooldown WHERE id = 1`); err != nil {
		return fmt.Errorf("clear cooldown: %w", err)
	}
	return nil
}

// Stats returns a count of records grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(1) FROM theme_progress GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("progress stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var raw string
		var count int
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, err
		}
		if status, ok := ParseStatus(raw); ok {
			stats[status] = count
		}
	}
	return stats, rows.Err()
}

// Reset deletes every record and the cooldown. The only way persisted
// progress is ever discarded.
func (s *Store) Reset(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM theme_progress`)
	if err != nil {
		return 0, fmt.Errorf("reset records: %w", err)
	}
	if err := s.ClearCooldown(ctx); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		itemID     string
		rawStatus  string
		reason     sql.NullString
		updatedRaw string
	)
	if err := scanner.Scan(&itemID, &rawStatus, &reason, &updatedRaw); err != nil {
		return Record{}, err
	}
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return Record{}, fmt.Errorf("unknown status %q", rawStatus)
	}
	record := Record{
		ItemID: itemID,
		Status: status,
		Reason: reason.String,
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
