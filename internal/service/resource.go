package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/metrics"
)

// Table is the owner-scoped store a Resource reads and writes.
type Table[Row any] interface {
	Name() string
	List(ctx context.Context, ownerID string) ([]Row, error)
	Get(ctx context.Context, id, ownerID string) (Row, error)
	Insert(ctx context.Context, patch domain.RowPatch) (Row, error)
	Update(ctx context.Context, id, ownerID string, patch domain.RowPatch) (Row, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Input is a partial record: it maps its supplied fields to a row patch and
// knows which fields a create needs.
type Input interface {
	ToRow(ownerID string) domain.RowPatch
	Complete() error
}

// Check is an extra rule applied to an input before it is written.
type Check[In Input] func(ctx context.Context, ownerID string, in In) error

// Resource provides owner-scoped CRUD for one entity type, translating
// between stored rows and records.
type Resource[R any, In Input, Row any] struct {
	table    Table[Row]
	fromRow  func(Row) R
	validate *Validator
	checks   []Check[In]
}

// NewResource creates a Resource over table using fromRow as the row mapper.
func NewResource[R any, In Input, Row any](table Table[Row], fromRow func(Row) R, v *Validator, checks ...Check[In]) *Resource[R, In, Row] {
	return &Resource[R, In, Row]{
		table:    table,
		fromRow:  fromRow,
		validate: v,
		checks:   checks,
	}
}

// Name returns the name of the underlying table.
func (s *Resource[R, In, Row]) Name() string {
	return s.table.Name()
}

// List returns every record owned by ownerID in store order.
func (s *Resource[R, In, Row]) List(ctx context.Context, ownerID string) ([]R, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	rows, err := s.table.List(ctx, ownerID)
	s.record("list", err)
	if err != nil {
		return nil, err
	}

	records := make([]R, len(rows))
	for i, row := range rows {
		records[i] = s.fromRow(row)
	}
	return records, nil
}

// Get returns one record owned by ownerID.
func (s *Resource[R, In, Row]) Get(ctx context.Context, ownerID, id string) (R, error) {
	var zero R
	if ownerID == "" {
		return zero, domain.ErrNoIdentity
	}

	row, err := s.table.Get(ctx, id, ownerID)
	s.record("get", err)
	if err != nil {
		return zero, err
	}
	return s.fromRow(row), nil
}

// Create validates in and stores it as a new record owned by ownerID.
func (s *Resource[R, In, Row]) Create(ctx context.Context, ownerID string, in In) (R, error) {
	var zero R
	if ownerID == "" {
		return zero, domain.ErrNoIdentity
	}

	if err := s.accept(ctx, ownerID, in, true); err != nil {
		s.record("create", err)
		return zero, err
	}

	row, err := s.table.Insert(ctx, in.ToRow(ownerID))
	s.record("create", err)
	if err != nil {
		return zero, err
	}
	return s.fromRow(row), nil
}

// Update writes the supplied fields of in to the record id owned by ownerID.
func (s *Resource[R, In, Row]) Update(ctx context.Context, ownerID, id string, in In) (R, error) {
	var zero R
	if ownerID == "" {
		return zero, domain.ErrNoIdentity
	}

	if err := s.accept(ctx, ownerID, in, false); err != nil {
		s.record("update", err)
		return zero, err
	}

	row, err := s.table.Update(ctx, id, ownerID, in.ToRow(ownerID))
	s.record("update", err)
	if err != nil {
		return zero, err
	}
	return s.fromRow(row), nil
}

// Delete removes the record id owned by ownerID.
func (s *Resource[R, In, Row]) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrNoIdentity
	}

	err := s.table.Delete(ctx, id, ownerID)
	s.record("delete", err)
	return err
}

func (s *Resource[R, In, Row]) accept(ctx context.Context, ownerID string, in In, create bool) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	if create {
		if err := in.Complete(); err != nil {
			return err
		}
	} else if len(in.ToRow(ownerID)) == 1 {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	for _, check := range s.checks {
		if err := check(ctx, ownerID, in); err != nil {
			return err
		}
	}
	return nil
}

func (s *Resource[R, In, Row]) record(op string, err error) {
	outcome := outcomeOf(err)
	metrics.IncrementResourceOperation(s.table.Name(), op, outcome)
	if outcome == "error" {
		slog.Error("resource operation failed", "resource", s.table.Name(), "operation", op, "error", err)
	}
}

func outcomeOf(err error) string {
	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput), errors.As(err, &validationErr):
		return "invalid"
	default:
		return "error"
	}
}
