package diary

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mealplanner/internal/meal"
)

// Row is a persisted diary entry: the meal is stored by name and
// resolved against the catalog when a full diary is loaded.
type Row struct {
	Date     time.Time
	MealName string
}

// Repository persists the meal diary to SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new diary repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Set inserts or replaces the assignment for a single date.
func (r *Repository) Set(ctx context.Context, date time.Time, mealName string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_diary (date, meal_name, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET meal_name = excluded.meal_name, updated_at = excluded.updated_at`,
		Normalize(date).Format(DateFormat), mealName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert diary entry for %s: %w", date.Format(DateFormat), err)
	}
	return nil
}

// SaveDiary upserts every entry of the given diary in one transaction.
func (r *Repository) SaveDiary(ctx context.Context, d *Diary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin diary transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, entry := range d.Entries() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO meal_diary (date, meal_name, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET meal_name = excluded.meal_name, updated_at = excluded.updated_at`,
			entry.Date.Format(DateFormat), entry.Meal.Name, now); err != nil {
			return fmt.Errorf("failed to upsert diary entry for %s: %w", entry.Date.Format(DateFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit diary transaction: %w", err)
	}
	return nil
}

// Get returns the meal name assigned to a date. A date with no entry
// returns ok == false, not an error.
func (r *Repository) Get(ctx context.Context, date time.Time) (string, bool, error) {
	var mealName string
	err := r.db.QueryRowContext(ctx,
		`SELECT meal_name FROM meal_diary WHERE date = ?`,
		Normalize(date).Format(DateFormat)).Scan(&mealName)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get diary entry for %s: %w", date.Format(DateFormat), err)
	}
	return mealName, true, nil
}

// Range returns all entries with from <= date <= to, in date order.
func (r *Repository) Range(ctx context.Context, from, to time.Time) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, meal_name FROM meal_diary WHERE date >= ? AND date <= ? ORDER BY date`,
		Normalize(from).Format(DateFormat), Normalize(to).Format(DateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query diary range: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Window returns all entries within windowDays days of the given date,
// both before and after.
func (r *Repository) Window(ctx context.Context, date time.Time, windowDays int) ([]Row, error) {
	date = Normalize(date)
	window := time.Duration(windowDays) * 24 * time.Hour
	return r.Range(ctx, date.Add(-window), date.Add(window))
}

// Delete removes the entries for the given dates. Unassigned dates are
// ignored.
func (r *Repository) Delete(ctx context.Context, dates ...time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	var removed int64
	for _, date := range dates {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM meal_diary WHERE date = ?`, Normalize(date).Format(DateFormat))
		if err != nil {
			return 0, fmt.Errorf("failed to delete diary entry for %s: %w", date.Format(DateFormat), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count deleted rows: %w", err)
		}
		removed += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete transaction: %w", err)
	}
	return removed, nil
}

// LoadAll returns every persisted entry in date order.
func (r *Repository) LoadAll(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, meal_name FROM meal_diary ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to load diary: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// LoadDiary loads the full persisted diary, resolving meal names
// against the catalog. A stored name missing from the catalog is an
// error: the diary would silently lose history otherwise.
func (r *Repository) LoadDiary(ctx context.Context, catalog *meal.Catalog) (*Diary, error) {
	stored, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	d := New()
	for _, row := range stored {
		m, ok := catalog.Get(row.MealName)
		if !ok {
			return nil, fmt.Errorf("diary entry %s references unknown meal %q",
				row.Date.Format(DateFormat), row.MealName)
		}
		d.Set(row.Date, m)
	}
	return d, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var result []Row
	for rows.Next() {
		var dateStr, mealName string
		if err := rows.Scan(&dateStr, &mealName); err != nil {
			return nil, fmt.Errorf("failed to scan diary row: %w", err)
		}
		date, err := time.ParseInLocation(DateFormat, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored diary date %q: %w", dateStr, err)
		}
		result = append(result, Row{Date: date, MealName: mealName})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diary rows: %w", err)
	}
	return result, nil
}
