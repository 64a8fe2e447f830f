package domain

import "time"

// RequirementStatus represents the review state of a requirement.
type RequirementStatus string

const (
	RequirementStatusPending  RequirementStatus = "Pending"
	RequirementStatusInReview RequirementStatus = "In Review"
	RequirementStatusDone     RequirementStatus = "Done"
)

// Priority ranks requirements within a project.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Requirement represents a task within a project.
type Requirement struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"projectId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      RequirementStatus `json:"status"`
	Priority    Priority          `json:"priority"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func (r Requirement) Key() string        { return r.ID }
func (r Requirement) ProjectRef() string { return r.ProjectID }

// RequirementRow is the persisted shape of a requirement.
type RequirementRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ProjectID   string    `db:"project_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Status      string    `db:"status"`
	Priority    string    `db:"priority"`
	Notes       *string   `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// RequirementInput carries the fields of a requirement create or partial update.
type RequirementInput struct {
	ProjectID   *string            `json:"projectId" validate:"omitnil,min=1"`
	Title       *string            `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string            `json:"description" validate:"omitnil,max=5000"`
	Status      *RequirementStatus `json:"status" validate:"omitnil,oneof=Pending 'In Review' Done"`
	Priority    *Priority          `json:"priority" validate:"omitnil,oneof=Low Medium High"`
	Notes       *string            `json:"notes" validate:"omitnil,max=5000"`
}

// Complete reports the first field a new requirement cannot be created without.
func (in RequirementInput) Complete() error {
	switch {
	case in.ProjectID == nil:
		return missing("projectId")
	case in.Title == nil:
		return missing("title")
	case in.Status == nil:
		return missing("status")
	case in.Priority == nil:
		return missing("priority")
	}
	return nil
}

// ToRow maps the supplied fields onto requirement columns owned by ownerID.
func (in RequirementInput) ToRow(ownerID string) RowPatch {
	p := newRowPatch(ownerID)
	setIf(p, "project_id", in.ProjectID)
	setIf(p, "title", in.Title)
	setIf(p, "description", in.Description)
	setText(p, "status", in.Status)
	setText(p, "priority", in.Priority)
	setIf(p, "notes", in.Notes)
	return p
}

// RequirementFromRow maps a stored requirement row to its record.
func RequirementFromRow(row RequirementRow) Requirement {
	return Requirement{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		Title:       row.Title,
		Description: orEmpty(row.Description),
		Status:      RequirementStatus(row.Status),
		Priority:    Priority(row.Priority),
		Notes:       orEmpty(row.Notes),
		CreatedAt:   row.CreatedAt,
	}
}
