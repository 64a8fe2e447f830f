package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/workspace"
)

// resourceSpec describes the list/add/update/delete commands of a resource.
type resourceSpec[R workspace.Keyed, In any] struct {
	use        string
	short      string
	collection func(*workspace.Workspace) *workspace.Collection[R, In]
	fields     []field[In]
	headers    []string
	row        func(a *app, r R) []string
	// filter narrows a list to one project when set.
	filter func(items []R, projectID string) []R
	// render replaces the default table when set.
	render func(a *app, w io.Writer, items []R)
}

func newResourceCommand[R workspace.Keyed, In any](a *app, spec resourceSpec[R, In]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var projectID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + spec.use + ", newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := spec.collection(a.ws).Items()
			if spec.filter != nil {
				items = spec.filter(items, projectID)
			}
			if len(items) == 0 {
				fmt.Fprintf(a.out, "No %s found.\n", spec.use)
				return nil
			}
			if spec.render != nil {
				spec.render(a, a.out, items)
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, spec.row(a, item))
			}
			printTable(a.out, spec.headers, rows)
			return nil
		},
	}
	if spec.filter != nil {
		listCmd.Flags().StringVar(&projectID, "project", domain.AllProjects, "only show items of this project id")
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a " + spec.use[:len(spec.use)-1],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFields(cmd, spec.fields)
			if err != nil {
				return err
			}
			created, err := spec.collection(a.ws).Create(cmd.Context(), in)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(a.out, created.Key())
			return nil
		},
	}
	registerFields(addCmd, spec.fields)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a " + spec.use[:len(spec.use)-1],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFields(cmd, spec.fields)
			if err != nil {
				return err
			}
			updated, err := spec.collection(a.ws).Update(cmd.Context(), args[0], in)
			if err != nil {
				return describe(err)
			}
			printTable(a.out, spec.headers, [][]string{spec.row(a, updated)})
			return nil
		},
	}
	registerFields(updateCmd, spec.fields)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + spec.use[:len(spec.use)-1],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return describe(spec.collection(a.ws).Delete(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}

// describe turns a validation failure into a message naming the field.
func describe(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%s %s", ve.Field, ve.Message)
	}
	return err
}

func newProjectsCommand(a *app) *cobra.Command {
	cmd := newResourceCommand(a, resourceSpec[domain.Project, domain.ProjectInput]{
		use:        "projects",
		short:      "Manage client projects",
		collection: func(w *workspace.Workspace) *workspace.Collection[domain.Project, domain.ProjectInput] { return w.Projects },
		fields:     projectFields,
		headers:    []string{"ID", "NAME", "CLIENT", "STATUS", "START", "DEADLINE", "BUDGET"},
		row: func(a *app, p domain.Project) []string {
			return []string{p.ID, p.Name, p.Client, string(p.Status), p.StartDate, p.Deadline, workspace.FormatMoney(p.Budget)}
		},
	})
	cmd.AddCommand(newProjectShowCommand(a))
	return cmd
}

func newProjectShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project with its progress and related items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.ws.Projects.Find(args[0])
			if !ok {
				return fmt.Errorf("project %s: %w", args[0], domain.ErrNotFound)
			}
			progress := a.ws.ProjectProgress(p.ID)
			meetings := a.ws.MeetingSplit(p.ID)
			totals := a.ws.PaymentTotals(p.ID)

			printTable(a.out, []string{"FIELD", "VALUE"}, [][]string{
				{"Name", p.Name},
				{"Client", p.Client},
				{"Email", orDash(p.ClientEmail)},
				{"Phone", orDash(p.ClientPhone)},
				{"Status", string(p.Status)},
				{"Dates", p.StartDate + " to " + p.Deadline},
				{"Budget", workspace.FormatMoney(p.Budget)},
				{"Description", orDash(p.Description)},
				{"Progress", fmt.Sprintf("%d/%d requirements done (%s%%)", progress.Done, progress.Total, strconv.FormatFloat(progress.Percent, 'f', 0, 64))},
				{"Meetings", fmt.Sprintf("%d upcoming, %d completed", len(meetings.Upcoming), len(meetings.Completed))},
				{"Received", workspace.FormatMoney(totals.TotalEarnings)},
				{"Outstanding", workspace.FormatMoney(totals.PendingAmount + totals.PartialAmount)},
			})
			return nil
		},
	}
}

func newRequirementsCommand(a *app) *cobra.Command {
	return newResourceCommand(a, resourceSpec[domain.Requirement, domain.RequirementInput]{
		use:        "requirements",
		short:      "Manage project requirements",
		collection: func(w *workspace.Workspace) *workspace.Collection[domain.Requirement, domain.RequirementInput] { return w.Requirements },
		fields:     requirementFields,
		headers:    []string{"ID", "PROJECT", "TITLE", "STATUS", "PRIORITY"},
		row: func(a *app, r domain.Requirement) []string {
			return []string{r.ID, a.projectName(r.ProjectID), r.Title, string(r.Status), string(r.Priority)}
		},
		filter: domain.ForProject[domain.Requirement],
	})
}

func newPaymentsCommand(a *app) *cobra.Command {
	cmd := newResourceCommand(a, resourceSpec[domain.Payment, domain.PaymentInput]{
		use:        "payments",
		short:      "Manage payments received",
		collection: func(w *workspace.Workspace) *workspace.Collection[domain.Payment, domain.PaymentInput] { return w.Payments },
		fields:     paymentFields,
		headers:    []string{"ID", "PROJECT", "AMOUNT", "DATE", "METHOD", "STATUS"},
		row: func(a *app, p domain.Payment) []string {
			return []string{p.ID, a.projectName(p.ProjectID), workspace.FormatMoney(p.Amount), p.DateReceived, p.PaymentMethod, string(p.Status)}
		},
		filter: domain.ForProject[domain.Payment],
	})
	cmd.AddCommand(newPaymentSummaryCommand(a))
	return cmd
}

func newPaymentSummaryCommand(a *app) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals received, pending and partially paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			totals := a.ws.PaymentTotals(projectID)
			printTable(a.out, []string{"TOTAL EARNINGS", "PENDING", "PARTIAL"}, [][]string{{
				workspace.FormatMoney(totals.TotalEarnings),
				workspace.FormatMoney(totals.PendingAmount),
				workspace.FormatMoney(totals.PartialAmount),
			}})
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", domain.AllProjects, "only count payments of this project id")
	return cmd
}

func newMeetingsCommand(a *app) *cobra.Command {
	headers := []string{"ID", "PROJECT", "TITLE", "DATE", "TIME", "MINUTES", "PARTICIPANTS"}
	row := func(a *app, m domain.Meeting) []string {
		return []string{m.ID, a.projectName(m.ProjectID), m.Title, m.Date, m.Time, strconv.Itoa(m.Duration), joinNames(m.Participants)}
	}

	cmd := newResourceCommand(a, resourceSpec[domain.Meeting, domain.MeetingInput]{
		use:        "meetings",
		short:      "Manage client meetings",
		collection: func(w *workspace.Workspace) *workspace.Collection[domain.Meeting, domain.MeetingInput] { return w.Meetings },
		fields:     meetingFields,
		headers:    headers,
		row:        row,
		filter:     domain.ForProject[domain.Meeting],
		render: func(a *app, w io.Writer, items []domain.Meeting) {
			split := domain.SplitMeetings(items)
			for _, section := range []struct {
				title string
				items []domain.Meeting
			}{{"Upcoming", split.Upcoming}, {"Completed", split.Completed}} {
				fmt.Fprintf(w, "%s (%d)\n", section.title, len(section.items))
				if len(section.items) == 0 {
					continue
				}
				rows := make([][]string, 0, len(section.items))
				for _, m := range section.items {
					rows = append(rows, row(a, m))
				}
				printTable(w, headers, rows)
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a meeting as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.ws.CompleteMeeting(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(a.out, "%s %s\n", m.ID, m.Status)
			return nil
		},
	})
	return cmd
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
