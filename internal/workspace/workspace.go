package workspace

import (
	"context"
	"errors"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/notify"
	"github.com/sumire/freelance/internal/session"
)

type (
	ProjectSource     = Source[domain.Project, domain.ProjectInput]
	RequirementSource = Source[domain.Requirement, domain.RequirementInput]
	PaymentSource     = Source[domain.Payment, domain.PaymentInput]
	MeetingSource     = Source[domain.Meeting, domain.MeetingInput]
)

// Sources bundles the stores behind each collection.
type Sources struct {
	Projects     ProjectSource
	Requirements RequirementSource
	Payments     PaymentSource
	Meetings     MeetingSource
}

// Workspace holds the four collections of the signed-in user.
type Workspace struct {
	Session      *session.Session
	Projects     *Collection[domain.Project, domain.ProjectInput]
	Requirements *Collection[domain.Requirement, domain.RequirementInput]
	Payments     *Collection[domain.Payment, domain.PaymentInput]
	Meetings     *Collection[domain.Meeting, domain.MeetingInput]

	stops []func()
}

// New creates a Workspace over sources. Collections start empty; call Watch
// or Refresh to load them.
func New(sources Sources, sess *session.Session, notifier notify.Notifier) *Workspace {
	return &Workspace{
		Session:      sess,
		Projects:     NewCollection(sources.Projects, sess, notifier, Labels{Singular: "Project", Plural: "Projects", Emphatic: true}),
		Requirements: NewCollection(sources.Requirements, sess, notifier, Labels{Singular: "Requirement", Plural: "Requirements"}),
		Payments:     NewCollection(sources.Payments, sess, notifier, Labels{Singular: "Payment", Plural: "Payments"}),
		Meetings:     NewCollection(sources.Meetings, sess, notifier, Labels{Singular: "Meeting", Plural: "Meetings"}),
	}
}

// Watch loads every collection and keeps them in step with the session.
func (w *Workspace) Watch(ctx context.Context) {
	w.stops = append(w.stops,
		w.Projects.Watch(ctx),
		w.Requirements.Watch(ctx),
		w.Payments.Watch(ctx),
		w.Meetings.Watch(ctx),
	)
}

// Close stops watching the session.
func (w *Workspace) Close() {
	for _, stop := range w.stops {
		stop()
	}
	w.stops = nil
}

// Refresh reloads every collection.
func (w *Workspace) Refresh(ctx context.Context) error {
	return errors.Join(
		w.Projects.Refresh(ctx),
		w.Requirements.Refresh(ctx),
		w.Payments.Refresh(ctx),
		w.Meetings.Refresh(ctx),
	)
}

// Loading reports whether any collection the dashboard needs is still loading.
func (w *Workspace) Loading() bool {
	return w.Projects.Loading() || w.Requirements.Loading() || w.Payments.Loading()
}

// Dashboard computes the overview from the current items.
func (w *Workspace) Dashboard() domain.Dashboard {
	return domain.Summarize(w.Projects.Items(), w.Requirements.Items(), w.Payments.Items())
}

// PaymentTotals sums the current payments by status for projectID, or for
// every project when projectID is "" or domain.AllProjects.
func (w *Workspace) PaymentTotals(projectID string) domain.PaymentTotals {
	return domain.SummarizePayments(domain.ForProject(w.Payments.Items(), projectID))
}

// ProjectProgress reports how many of a project's requirements are done.
func (w *Workspace) ProjectProgress(projectID string) domain.Progress {
	return domain.ProjectProgress(projectID, w.Requirements.Items())
}

// MeetingSplit separates the current meetings, optionally for one project.
func (w *Workspace) MeetingSplit(projectID string) domain.MeetingSplit {
	return domain.SplitMeetings(domain.ForProject(w.Meetings.Items(), projectID))
}

// CompleteMeeting marks a meeting as held.
func (w *Workspace) CompleteMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	return w.Meetings.Update(ctx, id, domain.MarkMeetingCompleted())
}
