package domain

import "time"

// ProjectStatus represents where a client project stands.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "Planning"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
	ProjectStatusCompleted  ProjectStatus = "Completed"
)

// Project is a client engagement tracked by the freelancer.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Client      string        `json:"client"`
	ClientEmail string        `json:"clientEmail"`
	ClientPhone string        `json:"clientPhone"`
	Status      ProjectStatus `json:"status"`
	StartDate   string        `json:"startDate"`
	Deadline    string        `json:"deadline"`
	Budget      float64       `json:"budget"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Key returns the store-assigned id.
func (p Project) Key() string { return p.ID }

// ProjectRow is the persisted shape of a project.
type ProjectRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Client      string    `db:"client"`
	ClientEmail *string   `db:"client_email"`
	ClientPhone *string   `db:"client_phone"`
	Status      string    `db:"status"`
	StartDate   string    `db:"start_date"`
	Deadline    string    `db:"deadline"`
	Budget      float64   `db:"budget"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProjectInput carries the fields of a project create or partial update.
// Nil fields are not written.
type ProjectInput struct {
	Name        *string        `json:"name" validate:"omitnil,min=1,max=200"`
	Client      *string        `json:"client" validate:"omitnil,min=1,max=200"`
	ClientEmail *string        `json:"clientEmail" validate:"omitnil,len=0|email"`
	ClientPhone *string        `json:"clientPhone" validate:"omitnil,max=50"`
	Status      *ProjectStatus `json:"status" validate:"omitnil,oneof=Planning 'In Progress' 'On Hold' Completed"`
	StartDate   *string        `json:"startDate" validate:"omitnil,datetime=2006-01-02"`
	Deadline    *string        `json:"deadline" validate:"omitnil,datetime=2006-01-02"`
	Budget      *float64       `json:"budget" validate:"omitnil,gte=0"`
	Description *string        `json:"description" validate:"omitnil,max=5000"`
}

// Complete reports the first field a new project cannot be created without.
func (in ProjectInput) Complete() error {
	switch {
	case in.Name == nil:
		return missing("name")
	case in.Client == nil:
		return missing("client")
	case in.Status == nil:
		return missing("status")
	case in.StartDate == nil:
		return missing("startDate")
	case in.Deadline == nil:
		return missing("deadline")
	case in.Budget == nil:
		return missing("budget")
	}
	return nil
}

// ToRow maps the supplied fields onto project columns owned by ownerID.
func (in ProjectInput) ToRow(ownerID string) RowPatch {
	p := newRowPatch(ownerID)
	setIf(p, "name", in.Name)
	setIf(p, "client", in.Client)
	setIf(p, "client_email", in.ClientEmail)
	setIf(p, "client_phone", in.ClientPhone)
	setText(p, "status", in.Status)
	setIf(p, "start_date", in.StartDate)
	setIf(p, "deadline", in.Deadline)
	setIf(p, "budget", in.Budget)
	setIf(p, "description", in.Description)
	return p
}

// ProjectFromRow maps a stored project row to its record.
func ProjectFromRow(row ProjectRow) Project {
	return Project{
		ID:          row.ID,
		Name:        row.Name,
		Client:      row.Client,
		ClientEmail: orEmpty(row.ClientEmail),
		ClientPhone: orEmpty(row.ClientPhone),
		Status:      ProjectStatus(row.Status),
		StartDate:   row.StartDate,
		Deadline:    row.Deadline,
		Budget:      row.Budget,
		Description: orEmpty(row.Description),
		CreatedAt:   row.CreatedAt,
	}
}
