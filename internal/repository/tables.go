package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/sumire/freelance/internal/domain"
)

// NewProjectTable returns the projects table, newest created first.
func NewProjectTable(db *sqlx.DB) *Table[domain.ProjectRow] {
	return NewTable[domain.ProjectRow](db, TableSpec{
		Name:    "projects",
		OrderBy: "created_at",
		Columns: []string{
			"name", "client", "client_email", "client_phone", "status",
			"start_date", "deadline", "budget", "description",
		},
	})
}

// NewRequirementTable returns the requirements table, newest created first.
func NewRequirementTable(db *sqlx.DB) *Table[domain.RequirementRow] {
	return NewTable[domain.RequirementRow](db, TableSpec{
		Name:    "requirements",
		OrderBy: "created_at",
		Columns: []string{"project_id", "title", "description", "status", "priority", "notes"},
	})
}

// NewPaymentTable returns the payments table, latest received first.
func NewPaymentTable(db *sqlx.DB) *Table[domain.PaymentRow] {
	return NewTable[domain.PaymentRow](db, TableSpec{
		Name:    "payments",
		OrderBy: "date_received",
		Columns: []string{"project_id", "amount", "date_received", "payment_method", "status", "notes"},
	})
}

// NewMeetingTable returns the meetings table, latest date first.
func NewMeetingTable(db *sqlx.DB) *Table[domain.MeetingRow] {
	return NewTable[domain.MeetingRow](db, TableSpec{
		Name:    "meetings",
		OrderBy: "date",
		Columns: []string{
			"project_id", "title", "date", "time", "duration", "status", "minutes", "participants",
		},
	})
}
