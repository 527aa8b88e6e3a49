package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Binding maps a finger count to a command name.
type Binding struct {
	ID          string    `json:"id"`
	FingerCount int       `json:"finger_count"`
	Command     string    `json:"command"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks that the binding can be stored.
func (b *Binding) Validate() error {
	if b.FingerCount < 1 {
		return errors.Wrapf(ErrInvalid, "finger count %d must be at least 1", b.FingerCount)
	}
	if strings.TrimSpace(b.Command) == "" {
		return errors.Wrap(ErrInvalid, "command is empty")
	}
	return nil
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, finger_count, command, enabled, created_at, updated_at`

// Create inserts a new binding, assigning an ID when none is set.
func (r *BindingRepository) Create(b *Binding) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.FingerCount, b.Command, b.Enabled, b.CreatedAt, b.UpdatedAt,
	)
	return translate(err, b.FingerCount)
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	return r.get(`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id)
}

// GetByFingerCount retrieves the binding for a finger count.
func (r *BindingRepository) GetByFingerCount(count int) (*Binding, error) {
	return r.get(`SELECT `+bindingColumns+` FROM bindings WHERE finger_count = ?`, count)
}

func (r *BindingRepository) get(query string, arg any) (*Binding, error) {
	b := &Binding{}
	err := r.db.QueryRow(query, arg).
		Scan(&b.ID, &b.FingerCount, &b.Command, &b.Enabled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all bindings ordered by finger count.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY finger_count`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := []*Binding{}
	for rows.Next() {
		b := &Binding{}
		if err := rows.Scan(&b.ID, &b.FingerCount, &b.Command, &b.Enabled, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Update replaces the finger count, command and enabled flag of an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE bindings SET finger_count = ?, command = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		b.FingerCount, b.Command, b.Enabled, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return translate(err, b.FingerCount)
	}

	return requireRow(result)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps a unique constraint violation onto ErrConflict.
func translate(err error, fingerCount int) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Wrapf(ErrConflict, "finger count %d is already bound", fingerCount)
	}
	return err
}
