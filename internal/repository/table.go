package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/metrics"
)

// TableSpec describes an owner-scoped table.
type TableSpec struct {
	Name string
	// OrderBy is the column lists are sorted on, newest first.
	OrderBy string
	// Columns are the columns a patch may write, excluding id, user_id and
	// the timestamps.
	Columns []string
}

// Table is a generic data access object for one owner-scoped table whose rows
// scan into R.
type Table[R any] struct {
	db       *sqlx.DB
	spec     TableSpec
	selects  string
	writable map[string]bool
	now      func() time.Time
	newID    func() string
}

// NewTable creates a Table for spec.
func NewTable[R any](db *sqlx.DB, spec TableSpec) *Table[R] {
	cols := append([]string{"id", domain.OwnerColumn}, spec.Columns...)
	cols = append(cols, "created_at", "updated_at")

	writable := make(map[string]bool, len(spec.Columns)+1)
	for _, c := range spec.Columns {
		writable[c] = true
	}
	writable[domain.OwnerColumn] = true

	return &Table[R]{
		db:       db,
		spec:     spec,
		selects:  strings.Join(cols, ", "),
		writable: writable,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock replaces the timestamp source.
func (t *Table[R]) WithClock(now func() time.Time) *Table[R] {
	t.now = now
	return t
}

// Name returns the table name.
func (t *Table[R]) Name() string {
	return t.spec.Name
}

// List returns every row owned by ownerID, newest first.
func (t *Table[R]) List(ctx context.Context, ownerID string) ([]R, error) {
	defer t.observe("list", time.Now())

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY %s DESC, created_at DESC, id`,
		t.selects, t.spec.Name, t.spec.OrderBy)

	rows := []R{}
	if err := t.db.SelectContext(ctx, &rows, t.db.Rebind(query), ownerID); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.Name, err)
	}
	return rows, nil
}

// Get returns the row with id owned by ownerID.
func (t *Table[R]) Get(ctx context.Context, id, ownerID string) (R, error) {
	defer t.observe("get", time.Now())

	var row R
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND user_id = ?`, t.selects, t.spec.Name)
	err := t.db.GetContext(ctx, &row, t.db.Rebind(query), id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, domain.ErrNotFound
		}
		return row, fmt.Errorf("get %s %s: %w", t.spec.Name, id, err)
	}
	return row, nil
}

// Insert stores a new row built from patch. The id and timestamps are
// assigned here.
func (t *Table[R]) Insert(ctx context.Context, patch domain.RowPatch) (R, error) {
	defer t.observe("insert", time.Now())

	var row R
	if err := t.check(patch); err != nil {
		return row, err
	}

	now := t.timestamp()
	cols := append([]string{"id"}, patch.Columns()...)
	cols = append(cols, "created_at", "updated_at")

	args := make([]any, 0, len(cols))
	args = append(args, t.newID())
	for _, c := range patch.Columns() {
		args = append(args, patch[c])
	}
	args = append(args, now, now)

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.spec.Name, strings.Join(cols, ", "), placeholders(len(cols)), t.selects)

	if err := t.db.QueryRowxContext(ctx, t.db.Rebind(query), args...).StructScan(&row); err != nil {
		return row, fmt.Errorf("insert %s: %w", t.spec.Name, err)
	}
	return row, nil
}

// Update writes the patch columns of the row with id owned by ownerID and
// returns the updated row. Columns absent from the patch keep their values.
func (t *Table[R]) Update(ctx context.Context, id, ownerID string, patch domain.RowPatch) (R, error) {
	defer t.observe("update", time.Now())

	var row R
	if err := t.check(patch); err != nil {
		return row, err
	}

	var sets []string
	var args []any
	for _, c := range patch.Columns() {
		if c == domain.OwnerColumn {
			continue
		}
		sets = append(sets, c+" = ?")
		args = append(args, patch[c])
	}
	if len(sets) == 0 {
		return row, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, t.timestamp(), id, ownerID)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ? AND user_id = ? RETURNING %s`,
		t.spec.Name, strings.Join(sets, ", "), t.selects)

	err := t.db.QueryRowxContext(ctx, t.db.Rebind(query), args...).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, domain.ErrNotFound
		}
		return row, fmt.Errorf("update %s %s: %w", t.spec.Name, id, err)
	}
	return row, nil
}

// Delete removes the row with id owned by ownerID.
func (t *Table[R]) Delete(ctx context.Context, id, ownerID string) error {
	defer t.observe("delete", time.Now())

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ?`, t.spec.Name)
	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.spec.Name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.spec.Name, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *Table[R]) check(patch domain.RowPatch) error {
	if patch.Owner() == "" {
		return domain.ErrNoIdentity
	}
	for c := range patch {
		if !t.writable[c] {
			return fmt.Errorf("%w: unknown column %s.%s", domain.ErrInvalidInput, t.spec.Name, c)
		}
	}
	return nil
}

// timestamp is UTC with microsecond precision so it survives both dialects
// unchanged.
func (t *Table[R]) timestamp() time.Time {
	return t.now().UTC().Truncate(time.Microsecond)
}

func (t *Table[R]) observe(op string, start time.Time) {
	metrics.RecordDBQueryDuration(op, t.spec.Name, time.Since(start))
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
