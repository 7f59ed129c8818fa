package collector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one stored feedback submission. Pointer fields mirror the wire
// format's nullable columns.
type Entry struct {
	ID               string    `json:"id"`
	Message          string    `json:"feedback"`
	ReplyEmail       *string   `json:"reply_email"`
	UserID           *string   `json:"user_id"`
	AppName          *string   `json:"app_name"`
	AppVersion       *string   `json:"app_version"`
	OSVersion        string    `json:"os_version"`
	Timestamp        time.Time `json:"timestamp"`
	Locale           string    `json:"locale"`
	IsUserSubscribed *bool     `json:"is_user_subscribed"`
	Type             *string   `json:"feedback_type"`
	ReceivedAt       time.Time `json:"received_at"`
}

// Store persists feedback entries in PostgreSQL.
type Store struct{ db *sql.DB }

// NewStore creates a Postgres-backed feedback store.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// EnsureSchema creates the feedback table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS feedback (
			id                 TEXT PRIMARY KEY,
			message            TEXT NOT NULL,
			reply_email        TEXT,
			user_id            TEXT,
			app_name           TEXT,
			app_version        TEXT,
			os_version         TEXT NOT NULL,
			submitted_at       TIMESTAMPTZ NOT NULL,
			locale             TEXT NOT NULL,
			is_user_subscribed BOOLEAN,
			feedback_type      TEXT,
			received_at        TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert stores a new feedback entry, assigning an ID when absent.
func (s *Store) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, message, reply_email, user_id, app_name, app_version,
			os_version, submitted_at, locale, is_user_subscribed, feedback_type, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.Message, e.ReplyEmail, e.UserID, e.AppName, e.AppVersion,
		e.OSVersion, e.Timestamp, e.Locale, e.IsUserSubscribed, e.Type, e.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// List returns entries newest-first plus the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, reply_email, user_id, app_name, app_version,
			os_version, submitted_at, locale, is_user_subscribed, feedback_type, received_at
		FROM feedback
		ORDER BY received_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Message, &e.ReplyEmail, &e.UserID, &e.AppName,
			&e.AppVersion, &e.OSVersion, &e.Timestamp, &e.Locale,
			&e.IsUserSubscribed, &e.Type, &e.ReceivedAt); err != nil {
			return nil, 0, fmt.Errorf("scan feedback row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate feedback rows: %w", err)
	}
	return entries, total, nil
}

// CountByType returns submission counts grouped by feedback type. Entries
// without a type are grouped under "untyped".
func (s *Store) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(feedback_type, 'untyped'), COUNT(*)
		FROM feedback
		GROUP BY COALESCE(feedback_type, 'untyped')
	`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
