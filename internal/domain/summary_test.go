package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePaymentsViewTotals(t *testing.T) {
	payments := []Payment{
		{ID: "1", Amount: 2500, Status: PaymentStatusPaid},
		{ID: "2", Amount: 8000, Status: PaymentStatusPaid},
		{ID: "3", Amount: 1750, Status: PaymentStatusPending},
	}

	totals := SummarizePayments(payments)
	assert.Equal(t, 10500.0, totals.TotalEarnings)
	assert.Equal(t, 1750.0, totals.PendingAmount)
	assert.Equal(t, 0.0, totals.PartialAmount)

	d := Summarize(nil, nil, payments)
	assert.Equal(t, 12250.0, d.TotalEarnings, "dashboard counts every payment")
	assert.Equal(t, 1, d.PendingPayments)
	assert.Equal(t, 3, d.TotalTransactions)
}

func TestSummarizeEmpty(t *testing.T) {
	d := Summarize([]Project{{ID: "p", Status: ProjectStatusPlanning}}, nil, nil)
	assert.Equal(t, 0, d.PendingRequirements)
	assert.Equal(t, 0.0, d.TotalEarnings)
	assert.NotNil(t, d.RecentRequirements)
}

func TestSummarizeCounts(t *testing.T) {
	projects := []Project{
		{ID: "a", Name: "Alpha", Status: ProjectStatusInProgress},
		{ID: "b", Name: "Beta", Status: ProjectStatusCompleted},
		{ID: "c", Name: "Gamma", Status: ProjectStatusInProgress},
		{ID: "d", Name: "Delta", Status: ProjectStatusOnHold},
	}
	requirements := []Requirement{
		{ID: "r1", ProjectID: "b", Status: RequirementStatusPending},
		{ID: "r2", ProjectID: "a", Status: RequirementStatusDone},
		{ID: "r3", ProjectID: "a", Status: RequirementStatusPending},
		{ID: "r4", ProjectID: "zz", Status: RequirementStatusInReview},
		{ID: "r5", ProjectID: "a", Status: RequirementStatusPending},
	}

	d := Summarize(projects, requirements, nil)
	assert.Equal(t, 2, d.ActiveProjects)
	assert.Equal(t, 1, d.CompletedProjects)
	assert.Equal(t, 3, d.PendingRequirements)
	assert.Len(t, d.CurrentProjects, 3)
	assert.Equal(t, "a", d.CurrentProjects[0].ID)
	assert.Len(t, d.RecentRequirements, 4)
	assert.Equal(t, "Beta", d.RecentRequirements[0].ProjectName)
	assert.Equal(t, "", d.RecentRequirements[3].ProjectName, "orphaned requirement has no project name")
}

func TestForProject(t *testing.T) {
	payments := []Payment{{ID: "1", ProjectID: "a"}, {ID: "2", ProjectID: "b"}, {ID: "3", ProjectID: "a"}}

	assert.Len(t, ForProject(payments, AllProjects), 3)
	assert.Len(t, ForProject(payments, ""), 3)
	got := ForProject(payments, "a")
	assert.Equal(t, []string{"1", "3"}, []string{got[0].ID, got[1].ID})
	assert.Empty(t, ForProject(payments, "missing"))
}

func TestProjectProgress(t *testing.T) {
	assert.Equal(t, Progress{}, ProjectProgress("a", nil))

	reqs := []Requirement{
		{ProjectID: "a", Status: RequirementStatusDone},
		{ProjectID: "a", Status: RequirementStatusPending},
		{ProjectID: "a", Status: RequirementStatusDone},
		{ProjectID: "a", Status: RequirementStatusInReview},
		{ProjectID: "b", Status: RequirementStatusDone},
	}
	assert.Equal(t, Progress{Total: 4, Done: 2, Percent: 50}, ProjectProgress("a", reqs))
}

func TestSplitMeetings(t *testing.T) {
	s := SplitMeetings([]Meeting{
		{ID: "1", Status: MeetingStatusCompleted},
		{ID: "2", Status: MeetingStatusUpcoming},
		{ID: "3", Status: MeetingStatusUpcoming},
	})
	assert.Len(t, s.Upcoming, 2)
	assert.Len(t, s.Completed, 1)
	assert.Equal(t, "2", s.Upcoming[0].ID)
}
