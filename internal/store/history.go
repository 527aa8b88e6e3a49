package store

import (
	"database/sql"
	"time"
)

// DefaultHistoryLimit is used by Recent when limit is not positive.
const DefaultHistoryLimit = 50

// Entry is one dispatched command.
type Entry struct {
	ID          int64     `json:"id"`
	BindingID   string    `json:"binding_id,omitempty"`
	FingerCount int       `json:"finger_count"`
	Command     string    `json:"command"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryRepository records dispatched commands.
type HistoryRepository struct {
	db *sql.DB
}

// History returns the history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// Append records e and sets its ID and timestamp.
func (r *HistoryRepository) Append(e *Entry) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO history (binding_id, finger_count, command, created_at) VALUES (?, ?, ?, ?)`,
		e.BindingID, e.FingerCount, e.Command, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepository) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.Query(
		`SELECT id, binding_id, finger_count, command, created_at
		 FROM history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.BindingID, &e.FingerCount, &e.Command, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Clear removes all entries.
func (r *HistoryRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM history`)
	return err
}
