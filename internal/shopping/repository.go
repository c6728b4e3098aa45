package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mealplanner/internal/diary"
)

// StoredList is a persisted, rendered shopping list.
type StoredList struct {
	ID        int64
	StartDate time.Time
	EndDate   time.Time
	Content   string
	CreatedAt time.Time
}

// Repository handles persistence of rendered shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a rendered shopping list for a date range and returns its
// ID. An existing list for the same range is replaced.
func (r *Repository) Save(ctx context.Context, start, end time.Time, content string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (start_date, end_date, content, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (start_date, end_date) DO UPDATE SET content = excluded.content, created_at = excluded.created_at`,
		diary.Normalize(start).Format(diary.DateFormat),
		diary.Normalize(end).Format(diary.DateFormat),
		content, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list id: %w", err)
	}
	return id, nil
}

// GetByRange retrieves the stored list for an exact date range. A
// missing list returns nil, not an error.
func (r *Repository) GetByRange(ctx context.Context, start, end time.Time) (*StoredList, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, content, created_at
		FROM shopping_lists WHERE start_date = ? AND end_date = ?`,
		diary.Normalize(start).Format(diary.DateFormat),
		diary.Normalize(end).Format(diary.DateFormat))

	stored, err := scanStoredList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list by range: %w", err)
	}
	return stored, nil
}

// Latest retrieves the most recently created list. A missing list
// returns nil, not an error.
func (r *Repository) Latest(ctx context.Context) (*StoredList, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, content, created_at
		FROM shopping_lists ORDER BY created_at DESC, id DESC LIMIT 1`)

	stored, err := scanStoredList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest shopping list: %w", err)
	}
	return stored, nil
}

func scanStoredList(row *sql.Row) (*StoredList, error) {
	var stored StoredList
	var startStr, endStr string
	if err := row.Scan(&stored.ID, &startStr, &endStr, &stored.Content, &stored.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if stored.StartDate, err = time.ParseInLocation(diary.DateFormat, startStr, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse stored start date %q: %w", startStr, err)
	}
	if stored.EndDate, err = time.ParseInLocation(diary.DateFormat, endStr, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse stored end date %q: %w", endStr, err)
	}
	return &stored, nil
}
