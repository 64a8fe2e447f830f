package domain

import "time"

// PaymentStatus represents how much of an invoice has been settled.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Payment is money received, or expected, for a project.
type Payment struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"projectId"`
	Amount        float64       `json:"amount"`
	DateReceived  string        `json:"dateReceived"`
	PaymentMethod string        `json:"paymentMethod"`
	Status        PaymentStatus `json:"status"`
	Notes         string        `json:"notes"`
}

func (p Payment) Key() string        { return p.ID }
func (p Payment) ProjectRef() string { return p.ProjectID }

// PaymentRow is the persisted shape of a payment.
type PaymentRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ProjectID     string    `db:"project_id"`
	Amount        float64   `db:"amount"`
	DateReceived  string    `db:"date_received"`
	PaymentMethod string    `db:"payment_method"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// PaymentInput carries the fields of a payment create or partial update.
type PaymentInput struct {
	ProjectID     *string        `json:"projectId" validate:"omitnil,min=1"`
	Amount        *float64       `json:"amount" validate:"omitnil,gte=0"`
	DateReceived  *string        `json:"dateReceived" validate:"omitnil,datetime=2006-01-02"`
	PaymentMethod *string        `json:"paymentMethod" validate:"omitnil,max=100"`
	Status        *PaymentStatus `json:"status" validate:"omitnil,oneof=Pending Partial Paid"`
	Notes         *string        `json:"notes" validate:"omitnil,max=5000"`
}

// Complete reports the first field a new payment cannot be created without.
func (in PaymentInput) Complete() error {
	switch {
	case in.ProjectID == nil:
		return missing("projectId")
	case in.Amount == nil:
		return missing("amount")
	case in.DateReceived == nil:
		return missing("dateReceived")
	case in.PaymentMethod == nil:
		return missing("paymentMethod")
	case in.Status == nil:
		return missing("status")
	}
	return nil
}

// ToRow maps the supplied fields onto payment columns owned by ownerID.
func (in PaymentInput) ToRow(ownerID string) RowPatch {
	p := newRowPatch(ownerID)
	setIf(p, "project_id", in.ProjectID)
	setIf(p, "amount", in.Amount)
	setIf(p, "date_received", in.DateReceived)
	setIf(p, "payment_method", in.PaymentMethod)
	setText(p, "status", in.Status)
	setIf(p, "notes", in.Notes)
	return p
}

// PaymentFromRow maps a stored payment row to its record.
func PaymentFromRow(row PaymentRow) Payment {
	return Payment{
		ID:            row.ID,
		ProjectID:     row.ProjectID,
		Amount:        row.Amount,
		DateReceived:  row.DateReceived,
		PaymentMethod: row.PaymentMethod,
		Status:        PaymentStatus(row.Status),
		Notes:         orEmpty(row.Notes),
	}
}
