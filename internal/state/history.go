package state

import (
	"database/sql"
	"fmt"
	"imagefetch/internal/download/types"
	"imagefetch/internal/utils"
	"time"

	"github.com/google/uuid"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// FetchEntry is one recorded fetch attempt.
type FetchEntry struct {
	ID           string
	URL          string
	DestPath     string
	Filename     string
	Status       string
	ErrorKind    string
	Error        string
	ContentType  string
	DetectedType string
	Size         int64
	CreatedAt    time.Time
	TimeTaken    time.Duration
}

// EntryFromResult converts a fetch result into a history entry.
func EntryFromResult(r types.Result) FetchEntry {
	entry := FetchEntry{
		ID:           uuid.New().String(),
		URL:          r.URL,
		Filename:     r.Filename,
		Status:       StatusCompleted,
		ContentType:  r.ContentType,
		DetectedType: r.DetectedType,
		Size:         r.Size,
		CreatedAt:    time.Now(),
		TimeTaken:    r.Elapsed,
	}
	if r.Path != "" {
		entry.DestPath = utils.EnsureAbsPath(r.Path)
	}
	if !r.OK() {
		entry.Status = StatusFailed
		entry.ErrorKind = r.Kind.String()
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
	}
	return entry
}

// RecordFetch stores an attempt in the history table.
func RecordFetch(entry FetchEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO fetches (id, url, dest_path, filename, status, error_kind, error,
				content_type, detected_type, size, created_at, time_taken)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.URL, entry.DestPath, entry.Filename, entry.Status,
			entry.ErrorKind, entry.Error, entry.ContentType, entry.DetectedType,
			entry.Size, entry.CreatedAt.Unix(), entry.TimeTaken.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fetch: %w", err)
		}
		return nil
	})
}

// ListFetches returns the most recent attempts, newest first. A limit <= 0
// returns everything.
func ListFetches(limit int) ([]FetchEntry, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, url, dest_path, filename, status, error_kind, error,
			content_type, detected_type, size, created_at, time_taken
		FROM fetches
		ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetches: %w", err)
	}
	defer rows.Close()

	var entries []FetchEntry
	for rows.Next() {
		var (
			e                                       FetchEntry
			dest, filename, kind, msg, ctype, dtype sql.NullString
			size, createdAt, taken                  sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.URL, &dest, &filename, &e.Status, &kind, &msg,
			&ctype, &dtype, &size, &createdAt, &taken); err != nil {
			return nil, fmt.Errorf("failed to scan fetch: %w", err)
		}
		e.DestPath = dest.String
		e.Filename = filename.String
		e.ErrorKind = kind.String
		e.Error = msg.String
		e.ContentType = ctype.String
		e.DetectedType = dtype.String
		e.Size = size.Int64
		e.CreatedAt = time.Unix(createdAt.Int64, 0)
		e.TimeTaken = time.Duration(taken.Int64) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
