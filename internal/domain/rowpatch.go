package domain

import "sort"

// OwnerColumn is the column every owner-scoped table is filtered on.
const OwnerColumn = "user_id"

// RowPatch maps column names to values for an insert or a partial update.
// Columns absent from the patch are left untouched by the store.
type RowPatch map[string]any

func newRowPatch(ownerID string) RowPatch {
	return RowPatch{OwnerColumn: ownerID}
}

// Columns returns the patch columns in sorted order.
func (p RowPatch) Columns() []string {
	cols := make([]string, 0, len(p))
	for c := range p {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Owner returns the owner id attached to the patch, if any.
func (p RowPatch) Owner() string {
	owner, _ := p[OwnerColumn].(string)
	return owner
}

// setIf copies v into the patch only when it was supplied.
func setIf[T any](p RowPatch, column string, v *T) {
	if v != nil {
		p[column] = *v
	}
}

// setText copies a string-kinded value as a plain string so enum types reach
// the driver without relying on reflection-based conversion.
func setText[T ~string](p RowPatch, column string, v *T) {
	if v != nil {
		p[column] = string(*v)
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
