package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sumire/freelance/internal/domain"
)

// field is a form field of In exposed as a string flag. Only flags the user
// set are copied into the input, so an update touches only those fields.
type field[In any] struct {
	name  string
	usage string
	set   func(in *In, value string) error
}

func text[In any](name, usage string, dst func(*In) **string) field[In] {
	return field[In]{name: name, usage: usage, set: func(in *In, v string) error {
		*dst(in) = &v
		return nil
	}}
}

func enum[In any, E ~string](name, usage string, dst func(*In) **E) field[In] {
	return field[In]{name: name, usage: usage, set: func(in *In, v string) error {
		e := E(v)
		*dst(in) = &e
		return nil
	}}
}

func decimal[In any](name, usage string, dst func(*In) **float64) field[In] {
	return field[In]{name: name, usage: usage, set: func(in *In, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("--%s: %q is not a number", name, v)
		}
		*dst(in) = &f
		return nil
	}}
}

func integer[In any](name, usage string, dst func(*In) **int) field[In] {
	return field[In]{name: name, usage: usage, set: func(in *In, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("--%s: %q is not a whole number", name, v)
		}
		*dst(in) = &n
		return nil
	}}
}

func names[In any](name, usage string, dst func(*In) **[]string) field[In] {
	return field[In]{name: name, usage: usage, set: func(in *In, v string) error {
		list := domain.ParseParticipants(v)
		*dst(in) = &list
		return nil
	}}
}

func registerFields[In any](cmd *cobra.Command, fields []field[In]) {
	for _, f := range fields {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

func readFields[In any](cmd *cobra.Command, fields []field[In]) (In, error) {
	var in In
	for _, f := range fields {
		flag := cmd.Flags().Lookup(f.name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := f.set(&in, flag.Value.String()); err != nil {
			return in, err
		}
	}
	return in, nil
}

var projectFields = []field[domain.ProjectInput]{
	text("name", "project name", func(in *domain.ProjectInput) **string { return &in.Name }),
	text("client", "client name", func(in *domain.ProjectInput) **string { return &in.Client }),
	text("client-email", "client email", func(in *domain.ProjectInput) **string { return &in.ClientEmail }),
	text("client-phone", "client phone", func(in *domain.ProjectInput) **string { return &in.ClientPhone }),
	enum("status", "Planning, In Progress, On Hold or Completed", func(in *domain.ProjectInput) **domain.ProjectStatus { return &in.Status }),
	text("start-date", "start date (YYYY-MM-DD)", func(in *domain.ProjectInput) **string { return &in.StartDate }),
	text("deadline", "deadline (YYYY-MM-DD)", func(in *domain.ProjectInput) **string { return &in.Deadline }),
	decimal("budget", "budget in taka", func(in *domain.ProjectInput) **float64 { return &in.Budget }),
	text("description", "description", func(in *domain.ProjectInput) **string { return &in.Description }),
}

var requirementFields = []field[domain.RequirementInput]{
	text("project", "project id", func(in *domain.RequirementInput) **string { return &in.ProjectID }),
	text("title", "title", func(in *domain.RequirementInput) **string { return &in.Title }),
	text("description", "description", func(in *domain.RequirementInput) **string { return &in.Description }),
	enum("status", "Pending, In Review or Done", func(in *domain.RequirementInput) **domain.RequirementStatus { return &in.Status }),
	enum("priority", "Low, Medium or High", func(in *domain.RequirementInput) **domain.Priority { return &in.Priority }),
	text("notes", "notes", func(in *domain.RequirementInput) **string { return &in.Notes }),
}

var paymentFields = []field[domain.PaymentInput]{
	text("project", "project id", func(in *domain.PaymentInput) **string { return &in.ProjectID }),
	decimal("amount", "amount in taka", func(in *domain.PaymentInput) **float64 { return &in.Amount }),
	text("date", "date received (YYYY-MM-DD)", func(in *domain.PaymentInput) **string { return &in.DateReceived }),
	text("method", "payment method, e.g. bKash or Bank Transfer", func(in *domain.PaymentInput) **string { return &in.PaymentMethod }),
	enum("status", "Pending, Partial or Paid", func(in *domain.PaymentInput) **domain.PaymentStatus { return &in.Status }),
	text("notes", "notes", func(in *domain.PaymentInput) **string { return &in.Notes }),
}

var meetingFields = []field[domain.MeetingInput]{
	text("project", "project id", func(in *domain.MeetingInput) **string { return &in.ProjectID }),
	text("title", "title", func(in *domain.MeetingInput) **string { return &in.Title }),
	text("date", "date (YYYY-MM-DD)", func(in *domain.MeetingInput) **string { return &in.Date }),
	text("time", "start time (HH:MM)", func(in *domain.MeetingInput) **string { return &in.Time }),
	integer("duration", "duration in minutes", func(in *domain.MeetingInput) **int { return &in.Duration }),
	enum("status", "Upcoming or Completed", func(in *domain.MeetingInput) **domain.MeetingStatus { return &in.Status }),
	text("minutes", "meeting minutes", func(in *domain.MeetingInput) **string { return &in.Minutes }),
	names("participants", "comma separated participant names", func(in *domain.MeetingInput) **[]string { return &in.Participants }),
}
