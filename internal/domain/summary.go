package domain

// AllProjects is the project filter value that selects every project.
const AllProjects = "all"

const (
	currentProjectsShown    = 3
	recentRequirementsShown = 4
)

// ProjectScoped is implemented by records that belong to a project.
type ProjectScoped interface {
	ProjectRef() string
}

// ForProject keeps the items belonging to projectID. An empty id or AllProjects
// keeps everything.
func ForProject[T ProjectScoped](items []T, projectID string) []T {
	if projectID == "" || projectID == AllProjects {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.ProjectRef() == projectID {
			out = append(out, item)
		}
	}
	return out
}

// RecentRequirement is a requirement shown with the name of its project.
type RecentRequirement struct {
	Requirement
	ProjectName string `json:"projectName"`
}

// Dashboard holds the overview aggregates. TotalEarnings sums every payment
// regardless of status, unlike PaymentTotals.TotalEarnings.
type Dashboard struct {
	ActiveProjects      int                 `json:"activeProjects"`
	CompletedProjects   int                 `json:"completedProjects"`
	PendingRequirements int                 `json:"pendingRequirements"`
	TotalEarnings       float64             `json:"totalEarnings"`
	PendingPayments     int                 `json:"pendingPayments"`
	TotalTransactions   int                 `json:"totalTransactions"`
	CurrentProjects     []Project           `json:"currentProjects"`
	RecentRequirements  []RecentRequirement `json:"recentRequirements"`
}

// Summarize computes the dashboard from the current lists.
func Summarize(projects []Project, requirements []Requirement, payments []Payment) Dashboard {
	d := Dashboard{
		TotalTransactions:  len(payments),
		CurrentProjects:    []Project{},
		RecentRequirements: []RecentRequirement{},
	}

	names := make(map[string]string, len(projects))
	for i, p := range projects {
		names[p.ID] = p.Name
		switch p.Status {
		case ProjectStatusInProgress:
			d.ActiveProjects++
		case ProjectStatusCompleted:
			d.CompletedProjects++
		}
		if i < currentProjectsShown {
			d.CurrentProjects = append(d.CurrentProjects, p)
		}
	}

	for i, r := range requirements {
		if r.Status == RequirementStatusPending {
			d.PendingRequirements++
		}
		if i < recentRequirementsShown {
			d.RecentRequirements = append(d.RecentRequirements, RecentRequirement{
				Requirement: r,
				ProjectName: names[r.ProjectID],
			})
		}
	}

	for _, p := range payments {
		d.TotalEarnings += p.Amount
		if p.Status == PaymentStatusPending {
			d.PendingPayments++
		}
	}

	return d
}

// PaymentTotals holds the payments view figures. TotalEarnings counts only
// settled payments.
type PaymentTotals struct {
	TotalEarnings float64 `json:"totalEarnings"`
	PendingAmount float64 `json:"pendingAmount"`
	PartialAmount float64 `json:"partialAmount"`
}

// SummarizePayments sums payment amounts by status.
func SummarizePayments(payments []Payment) PaymentTotals {
	var t PaymentTotals
	for _, p := range payments {
		switch p.Status {
		case PaymentStatusPaid:
			t.TotalEarnings += p.Amount
		case PaymentStatusPending:
			t.PendingAmount += p.Amount
		case PaymentStatusPartial:
			t.PartialAmount += p.Amount
		}
	}
	return t
}

// Progress is the share of a project's requirements that are done.
type Progress struct {
	Total   int     `json:"total"`
	Done    int     `json:"done"`
	Percent float64 `json:"percent"`
}

// ProjectProgress computes progress for projectID from all requirements.
func ProjectProgress(projectID string, requirements []Requirement) Progress {
	var p Progress
	for _, r := range ForProject(requirements, projectID) {
		p.Total++
		if r.Status == RequirementStatusDone {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Done) / float64(p.Total) * 100
	}
	return p
}

// MeetingSplit separates meetings by status, keeping list order.
type MeetingSplit struct {
	Upcoming  []Meeting `json:"upcoming"`
	Completed []Meeting `json:"completed"`
}

// SplitMeetings partitions meetings into upcoming and completed.
func SplitMeetings(meetings []Meeting) MeetingSplit {
	s := MeetingSplit{Upcoming: []Meeting{}, Completed: []Meeting{}}
	for _, m := range meetings {
		switch m.Status {
		case MeetingStatusUpcoming:
			s.Upcoming = append(s.Upcoming, m)
		case MeetingStatusCompleted:
			s.Completed = append(s.Completed, m)
		}
	}
	return s
}
